package main

import (
	"github.com/brewline/queue/internal/app"
	"github.com/brewline/queue/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
