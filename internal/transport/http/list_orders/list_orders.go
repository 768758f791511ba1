package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/brewline/queue/internal/service/models/order"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	GetOrders(ctx context.Context, query order.QueryOrdersModel) ([]order.Order, error)
}

// ListOrders handles listing the orders of a business, newest first.
// The status query parameter accepts a comma separated list of statuses.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	query := order.QueryOrdersModel{
		BusinessIds: []int64{businessID},
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := order.ParseStatus(strings.TrimSpace(part))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)

				return
			}
			query.Statuses = append(query.Statuses, status)
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)

			return
		}
		query.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)

			return
		}
		query.Offset = offset
	}

	orders, err := service.GetOrders(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error listing orders", "error", err)

		return
	}

	if orders == nil {
		orders = []order.Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error writing response for list orders", "error", err)
	}
}
