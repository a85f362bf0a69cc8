package api

import (
	"errors"
	"net/http"
)

// ErrProductIDRequired is returned when a fetch needs a product id and none was given.
var ErrProductIDRequired = errors.New("product id is required")

// defaultErrorMessage is used when a failed response has an empty body.
const defaultErrorMessage = "Request failed"

// APIError is a non-2xx response from the catalog service.
//
//nolint:revive // APIError reads better than Error at call sites.
type APIError struct {
	StatusCode int
	Message    string
}

// Error returns the response body text, or "Request failed" when it was empty.
func (e *APIError) Error() string {
	if e.Message == "" {
		return defaultErrorMessage
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the catalog service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
