package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brewline/queue/internal/service/models/coffee"
	"github.com/brewline/queue/internal/service/models/order"
	"github.com/brewline/queue/internal/service/services/ordersvc"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	Name                string `json:"name"                validate:"required"`
	CoffeeType          string `json:"coffeeType"          validate:"required"`
	Size                string `json:"size"                validate:"required"`
	SpecialInstructions string `json:"specialInstructions"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to order.Order.
func (r *createOrderRequest) toModel(businessID int64) (*order.Order, error) {
	coffeeType, err := coffee.ParseType(r.CoffeeType)
	if err != nil {
		return nil, err
	}
	size, err := coffee.ParseSize(r.Size)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		BusinessID:          businessID,
		Name:                r.Name,
		CoffeeType:          coffeeType,
		Size:                size,
		SpecialInstructions: r.SpecialInstructions,
	}, nil
}

// CreateOrder handles the order submission request. The pickup time is
// assigned by the service, never taken from the client.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	businessID, err := strconv.ParseInt(chi.URLParam(r, "businessID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid business id", http.StatusBadRequest)

		return
	}

	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	model, err := orderReq.toModel(businessID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	created, err := service.CreateOrder(r.Context(), *model)
	if err != nil {
		switch {
		case errors.Is(err, ordersvc.ErrBusinessNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ordersvc.ErrBusinessInactive):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			slog.Error("Error creating order", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error writing response for create order", "error", err)
	}
}
