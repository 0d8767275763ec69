package zoho

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed is returned when the authorization server rejects the
	// refresh-token grant or answers with an error payload. It is fatal to
	// the in-flight call; nothing is cached on failure.
	ErrAuthFailed = errors.New("authorization server rejected the token request")

	// ErrMissingCredentials is returned when the client configuration is
	// missing one of client id, client secret, refresh token or
	// organization id.
	ErrMissingCredentials = errors.New("zoho credentials not fully configured")
)

// APIError carries a resource-server rejection: the status code, the
// remote message when the body was parseable, and otherwise the raw body.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("zoho: %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("zoho: %s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
}
