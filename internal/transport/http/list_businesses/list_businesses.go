package listbusinesses

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/brewline/queue/internal/service/models/business"
)

// service is an interface for the service layer.
type service interface {
	ListActive(ctx context.Context) ([]business.Business, error)
}

// ListBusinesses handles listing all active businesses.
func ListBusinesses(w http.ResponseWriter, r *http.Request, service service) {
	businesses, err := service.ListActive(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing businesses", "error", err)

		return
	}

	if businesses == nil {
		businesses = []business.Business{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(businesses); err != nil {
		slog.Error("Error writing response for list businesses", "error", err)
	}
}
