// Package apiclient holds HTTP helpers shared by the speech and language model backends.
package apiclient

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single backend request. Transcribing or extracting
// a short clip should never take this long.
const DefaultTimeout = 2 * time.Minute

// maxErrorBody bounds how much of a failed response is kept in the error
const maxErrorBody = 2048

// NewHTTPClient returns the client used by every HTTP backend
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// CheckResponse returns an error carrying the status and a truncated body
// when resp is not a 2xx response.
func CheckResponse(resp *http.Response, what string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%s failed (status %d): %s", what, resp.StatusCode, body)
}
