package checkout

// Config represents the configuration for the hosted checkout client
type Config struct {
	// SecretKey authenticates API requests
	SecretKey string

	// BaseURL is the provider API base URL
	BaseURL string

	// SuccessURL is the redirect URL after successful payment
	SuccessURL string

	// CancelURL is the redirect URL after cancelled payment
	CancelURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.SuccessURL == "" {
		return ErrInvalidRequest
	}
	if c.CancelURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
