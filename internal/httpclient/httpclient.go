// Package httpclient defines the minimal HTTP abstraction used by the
// Jira client, so tests can substitute canned responses without a server.
package httpclient

import (
	"net/http"
	"time"
)

// HTTPClient is the single-method surface of *http.Client we depend on.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an *http.Client with a bounded overall timeout. Individual
// requests are additionally bounded by their context.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
