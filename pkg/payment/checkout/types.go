package checkout

import "time"

// LineItem is one priced line sent to the hosted checkout page.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"` // minor units
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url,omitempty"`
}

// SessionRequest represents the request parameters for session creation
type SessionRequest struct {
	Reference  string            `json:"reference"` // our order number
	Currency   string            `json:"currency"`
	LineItems  []LineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SessionResponse represents a created hosted checkout session
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"` // hosted payment page
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatus represents the provider's view of a session
type SessionStatus struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"` // open, complete, expired
	Reference string `json:"reference"`
}

// ErrorResponse represents an error returned by the provider API
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
