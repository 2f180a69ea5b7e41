package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a hosted checkout API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new checkout client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreateSession creates a hosted checkout session for the given line items
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	if req.SuccessURL == "" {
		req.SuccessURL = c.config.SuccessURL
	}
	if req.CancelURL == "" {
		req.CancelURL = c.config.CancelURL
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "sessions", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	var sessionResp SessionResponse
	if err := json.Unmarshal(resp, &sessionResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session response: %w", err)
	}

	return &sessionResp, nil
}

// GetSession fetches the provider's current view of a session
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "sessions/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	var status SessionStatus
	if err := json.Unmarshal(resp, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session status: %w", err)
	}

	return &status, nil
}

// ExpireSession cancels an open session so it can no longer be paid
func (c *Client) ExpireSession(ctx context.Context, sessionID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "sessions/"+sessionID+"/expire", nil)
	if err != nil {
		return fmt.Errorf("failed to expire checkout session: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request to the checkout provider API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
		}

		errorMsg := fmt.Sprintf("checkout API error - Status: %d, Code: %s, Message: %s",
			resp.StatusCode, errResp.Code, errResp.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrSessionFailed, errorMsg)
		}
	}

	return respBody, nil
}
