package getqueue

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/queue"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	GetQueue(ctx context.Context, businessID int64) (queue.View, error)
}

// GetQueue handles fetching the queue view of a business, orders
// partitioned into pending and served groups.
func GetQueue(w http.ResponseWriter, r *http.Request, service service) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	view, err := service.GetQueue(r.Context(), businessID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting queue", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		slog.Error("Error writing response for get queue", "error", err)
	}
}
