package suggestadjustments

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// suggester is an interface for the ingredient suggestion client.
type suggester interface {
	AdjustIngredients(ctx context.Context, orderDescription string) (string, error)
}

// suggestRequest represents an ingredient suggestion request.
type suggestRequest struct {
	OrderDescription string `json:"orderDescription" validate:"required"`
}

// Validate validates the suggestion request.
func (r *suggestRequest) Validate() error {
	return validator.New().Struct(r)
}

// suggestResponse represents an ingredient suggestion response.
type suggestResponse struct {
	SuggestedAdjustments string `json:"suggestedAdjustments"`
}

// SuggestAdjustments proxies an order description to the suggestion
// service and returns the suggested ingredient adjustments.
func SuggestAdjustments(w http.ResponseWriter, r *http.Request, suggester suggester) {
	req := suggestRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for suggest adjustments", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for suggest adjustments", "error", err)

		return
	}

	adjustments, err := suggester.AdjustIngredients(r.Context(), req.OrderDescription)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		slog.Error("Error getting ingredient adjustments", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(suggestResponse{SuggestedAdjustments: adjustments}); err != nil {
		slog.Error("Error writing response for suggest adjustments", "error", err)
	}
}
