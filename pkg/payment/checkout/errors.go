package checkout

import "errors"

var (
	ErrInvalidRequest = errors.New("checkout: invalid request")
	ErrUnauthorized   = errors.New("checkout: unauthorized")
	ErrSessionFailed  = errors.New("checkout: session creation failed")
	ErrNetworkError   = errors.New("checkout: network error")
)
