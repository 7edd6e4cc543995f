package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
)

// APIClient implements SessionAPI against the storefront's own HTTP
// surface, the way the checkout page consumes it.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIClient{baseURL: baseURL, client: client}
}

type createSessionRequest struct {
	Items    []cart.CartItem `json:"items"`
	Currency string          `json:"currency,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	Error     string `json:"error,omitempty"`
}

type clientSecretResponse struct {
	ClientSecret string `json:"clientSecret"`
	Error        string `json:"error,omitempty"`
}

func (c *APIClient) CreateSession(ctx context.Context, items []cart.CartItem, currency string) (string, error) {
	body, err := json.Marshal(createSessionRequest{Items: items, Currency: currency})
	if err != nil {
		return "", fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/checkout", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode checkout response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", errors.New(out.Error)
		}
		return "", fmt.Errorf("checkout request failed with status %d", resp.StatusCode)
	}
	if out.SessionID == "" {
		return "", errors.New("no session ID returned")
	}
	return out.SessionID, nil
}

func (c *APIClient) ClientSecret(ctx context.Context, sessionID string) (string, error) {
	endpoint := c.baseURL + "/api/checkout/session?session_id=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoClientSecret
	}

	var out clientSecretResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", errors.New(out.Error)
		}
		return "", fmt.Errorf("session request failed with status %d", resp.StatusCode)
	}
	if out.ClientSecret == "" {
		return "", ErrNoClientSecret
	}
	return out.ClientSecret, nil
}
