// Package jira implements the Jira Cloud REST surface used by the
// workflow tools: issue retrieval, JQL search, and the workflow
// transition engine.
//
// The client is deliberately thin (authenticated request, bounded
// wait, strict JSON handling) so all decision logic stays in the
// transition resolver and the tool handlers.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pvaldes/issueflow/internal/config"
	"github.com/pvaldes/issueflow/internal/httpclient"
)

// apiPath is the Jira Cloud REST API v3 prefix.
const apiPath = "/rest/api/3"

// requestTimeout bounds the wait for any single Jira round trip.
const requestTimeout = 30 * time.Second

// snippetLen caps how much of a non-JSON body is quoted in errors.
const snippetLen = 500

// APIError is a non-2xx response from Jira, carrying the status code
// and raw body so callers can decide what to do next.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira %s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// CallRecorder receives one entry per completed API call. Implemented
// by the calllog store; a nil recorder disables audit logging.
type CallRecorder interface {
	Record(prefix, endpoint string, status int) error
}

// Client is an authenticated Jira REST client.
type Client struct {
	baseURL  string
	email    string
	apiToken string
	http     httpclient.HTTPClient
	recorder CallRecorder
}

// NewClient creates a Client from config. recorder may be nil.
func NewClient(cfg *config.JiraConfig, hc httpclient.HTTPClient, recorder CallRecorder) *Client {
	if hc == nil {
		hc = httpclient.New(requestTimeout)
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		email:    cfg.Email,
		apiToken: cfg.APIToken,
		http:     hc,
		recorder: recorder,
	}
}

// buildURL joins the configured base URL, the REST prefix, and the
// endpoint, attaching query parameters if present.
func (c *Client) buildURL(endpoint string, params url.Values) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := c.baseURL + apiPath + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// basicAuth returns the Authorization header value for email:token.
func (c *Client) basicAuth() string {
	creds := fmt.Sprintf("%s:%s", c.email, c.apiToken)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// do performs one authenticated round trip and returns the body and
// status. Non-2xx responses become *APIError. The wait is bounded by
// requestTimeout on top of whatever deadline the caller's context has.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint, params), reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.basicAuth())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("jira %s %s: %w", method, endpoint, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Printf("WARNING: jira: closing response body: %v", cerr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("jira %s %s: reading response: %w", method, endpoint, err)
	}

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return data, resp.StatusCode, nil
}

// Get performs a GET whose response must be valid JSON.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	data, status, err := c.do(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("jira GET %s: expected JSON but got non-JSON response (status=%d, body=%q)",
			endpoint, status, snippet(data))
	}
	c.record("", endpoint, status)
	return data, nil
}

// Post performs a POST. Jira write operations (transitions in
// particular) may answer 204 No Content or an empty body on success;
// those return a synthesized ok marker carrying the status code
// instead of failing.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.post(ctx, "", endpoint, body)
}

// post is Post with an audit-log prefix attached to the call record.
func (c *Client) post(ctx context.Context, logPrefix, endpoint string, body any) (json.RawMessage, error) {
	data, status, err := c.do(ctx, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return nil, err
	}
	c.record(logPrefix, endpoint, status)

	if status == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage(fmt.Sprintf(`{"ok": true, "status_code": %d}`, status)), nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("jira POST %s: expected JSON but got non-JSON response (status=%d, body=%q)",
			endpoint, status, snippet(data))
	}
	return data, nil
}

// record writes a call-log entry. Best-effort: audit logging must never
// fail the API call it describes.
func (c *Client) record(prefix, endpoint string, status int) {
	if c.recorder == nil {
		return
	}
	if prefix == "" {
		prefix = "jira"
	}
	if err := c.recorder.Record(prefix, endpoint, status); err != nil {
		log.Printf("WARNING: jira: call log: %v", err)
	}
}

// snippet truncates a response body for inclusion in error text.
func snippet(data []byte) string {
	s := string(data)
	if len(s) > snippetLen {
		s = s[:snippetLen]
	}
	return s
}
