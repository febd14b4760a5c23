package cfapi

import (
	"errors"
	"fmt"
	"strings"
)

var ErrHandleNotFound = errors.New("handle not found")

// APIError is a FAILED response from the API, or a non-JSON error page.
type APIError struct {
	StatusCode int
	Comment    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("codeforces api error (http %d): %s", e.StatusCode, e.Comment)
}

func newAPIError(statusCode int, comment string) error {
	apiErr := &APIError{StatusCode: statusCode, Comment: comment}
	// e.g. "handle: User with handle nobody_xyz not found"
	if strings.HasPrefix(comment, "handle") && strings.Contains(comment, "not found") {
		return fmt.Errorf("%w: %w", ErrHandleNotFound, apiErr)
	}
	return apiErr
}
