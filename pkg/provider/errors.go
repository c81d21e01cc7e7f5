package provider

import (
	"fmt"
	"net/http"

	"github.com/aretw0/scout/pkg/domain"
)

// StatusError is a non-success provider response.
// It unwraps to the domain sentinel matching the status code, if any.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	switch e.StatusCode {
	case http.StatusNotFound, http.StatusUnavailableForLegalReasons:
		return fmt.Sprintf("%s: not found (status %d)", e.Provider, e.StatusCode)
	case http.StatusPaymentRequired:
		return fmt.Sprintf("%s: insufficient credits (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap maps the status code onto the domain error taxonomy.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound, http.StatusUnavailableForLegalReasons:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnauthorized:
		return domain.ErrInvalidRequest
	case http.StatusPaymentRequired:
		return domain.ErrInsufficientCredits
	}
	return nil
}
