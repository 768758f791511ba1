package deactivatebusiness

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/models/business"
	"github.com/brewline/queue/internal/service/services/businesssvc"
	"github.com/brewline/queue/internal/transport/http/middleware/auth"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	GetByID(ctx context.Context, id int64) (*business.Business, error)
	Deactivate(ctx context.Context, id int64) error
}

// DeactivateBusiness soft deletes a business. Only the owner may do it.
func DeactivateBusiness(w http.ResponseWriter, r *http.Request, service service) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)

		return
	}

	b, err := service.GetByID(r.Context(), businessID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting business for deactivate", "error", err)

		return
	}
	if b == nil {
		http.Error(w, "business not found", http.StatusNotFound)

		return
	}
	if b.AdminID != user.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)

		return
	}

	if err := service.Deactivate(r.Context(), businessID); err != nil {
		if errors.Is(err, businesssvc.ErrBusinessNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error deactivating business", "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
