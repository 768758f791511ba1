package consumer

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownReturnsWhenRunNeverStarted(t *testing.T) {
	viper.Set("rabbitmq.shutdown_timeout", 50*time.Millisecond)
	t.Cleanup(func() { viper.Set("rabbitmq.shutdown_timeout", 0) })

	// Run failed before its receive loop, so done is never closed.
	c := &Consumer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	finished := make(chan error, 1)
	go func() { finished <- c.Shutdown() }()

	select {
	case err := <-finished:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return within the configured timeout")
	}
}

func TestShutdownWaitsForRunningConsumer(t *testing.T) {
	c := &Consumer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		<-c.stop
		close(c.done)
	}()

	require.NoError(t, c.Shutdown())

	select {
	case <-c.done:
	default:
		t.Fatal("done channel should be closed after Shutdown")
	}
}
