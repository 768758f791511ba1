package serveorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/models/business"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/brewline/queue/internal/service/services/ordersvc"
	"github.com/brewline/queue/internal/transport/http/middleware/auth"
	"github.com/go-chi/chi/v5"
)

// orderService is an interface for the order service layer.
type orderService interface {
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
	MarkServed(ctx context.Context, orderID int64) (order.Order, error)
}

// businessService is an interface for the business service layer.
type businessService interface {
	GetByID(ctx context.Context, id int64) (*business.Business, error)
}

// ServeOrder marks an order as served. Only the owner of the business
// the order belongs to may serve it, and a served order stays served.
func ServeOrder(w http.ResponseWriter, r *http.Request, orderSvc orderService, businessSvc businessService) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)

		return
	}

	o, err := orderSvc.GetOrder(r.Context(), orderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting order for serve", "error", err)

		return
	}
	if o == nil {
		http.Error(w, "order not found", http.StatusNotFound)

		return
	}

	b, err := businessSvc.GetByID(r.Context(), o.BusinessID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting business for serve", "error", err)

		return
	}
	if b == nil || b.AdminID != user.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)

		return
	}

	served, err := orderSvc.MarkServed(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, ordersvc.ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ordersvc.ErrOrderAlreadyServed):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			slog.Error("Error serving order", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(served); err != nil {
		slog.Error("Error writing response for serve order", "error", err)
	}
}
