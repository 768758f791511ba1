package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Suggester produces a barista's ingredient-adjustment hint for a free-text
// order description. The result is UI hinting only and never affects the
// queue.
type Suggester interface {
	AdjustIngredients(ctx context.Context, orderDescription string) (string, error)
}

// Client calls the external text-generation service.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewClient creates a new suggestion client from config.
func NewClient() *Client {
	timeout := viper.GetDuration("suggest.timeout")
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   viper.GetString("suggest.url"),
		apiKey:     os.Getenv("QUEUE_SUGGEST_API_KEY"),
	}
}

type adjustRequest struct {
	OrderDescription string `json:"orderDescription"`
}

type adjustResponse struct {
	SuggestedAdjustments string `json:"suggestedAdjustments"`
}

// AdjustIngredients asks the service for adjustments to an unusual order.
func (c *Client) AdjustIngredients(ctx context.Context, orderDescription string) (string, error) {
	payload, err := json.Marshal(adjustRequest{OrderDescription: orderDescription})
	if err != nil {
		return "", fmt.Errorf("failed to marshal suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call suggestion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggestion service returned status %d", resp.StatusCode)
	}

	var result adjustResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode suggestion response: %w", err)
	}

	return result.SuggestedAdjustments, nil
}
