package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// User is the identity provider's view of an authenticated admin.
type User struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Verifier resolves a bearer token to a user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

var ErrUnauthenticated = errors.New("unauthenticated")

// Client verifies tokens against the identity provider's userinfo endpoint.
// Interactive sign-in and sign-out stay on the provider's side; this service
// only ever sees issued tokens.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a new identity client from config.
func NewClient() *Client {
	timeout := viper.GetDuration("identity.timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   viper.GetString("identity.userinfo_url"),
	}
}

// Verify calls the userinfo endpoint with the given bearer token.
func (c *Client) Verify(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthenticated
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if user.UserID == "" {
		return nil, ErrUnauthenticated
	}

	return &user, nil
}
