package registerbusiness

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/brewline/queue/internal/service/models/business"
	"github.com/brewline/queue/internal/service/services/businesssvc"
	"github.com/brewline/queue/internal/transport/http/middleware/auth"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, b business.Business) (business.Business, error)
}

// registerBusinessRequest represents a register business request.
type registerBusinessRequest struct {
	Name string `json:"name" validate:"required"`
}

// Validate validates the register business request.
func (r *registerBusinessRequest) Validate() error {
	return validator.New().Struct(r)
}

// RegisterBusiness registers a new business owned by the authenticated
// user. Each user may own at most one business.
func RegisterBusiness(w http.ResponseWriter, r *http.Request, service service) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)

		return
	}

	businessReq := registerBusinessRequest{}
	if err := json.NewDecoder(r.Body).Decode(&businessReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for register business", "error", err)

		return
	}

	if err := businessReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for register business", "error", err)

		return
	}

	created, err := service.Register(r.Context(), business.Business{
		Name:       businessReq.Name,
		AdminID:    user.UserID,
		AdminEmail: user.Email,
	})
	if err != nil {
		if errors.Is(err, businesssvc.ErrAlreadyRegistered) {
			http.Error(w, err.Error(), http.StatusConflict)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error registering business", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error writing response for register business", "error", err)
	}
}
