package getbusiness

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/models/business"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	GetByID(ctx context.Context, id int64) (*business.Business, error)
}

// GetBusiness handles fetching a single business by id.
func GetBusiness(w http.ResponseWriter, r *http.Request, service service) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	b, err := service.GetByID(r.Context(), businessID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting business", "error", err)

		return
	}
	if b == nil {
		http.Error(w, "business not found", http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(b); err != nil {
		slog.Error("Error writing response for get business", "error", err)
	}
}
