// Package api wraps the Polaris Mall backend REST API. Request handles the
// transport concerns (bearer tokens, JSON bodies, the error envelope) and the
// domain methods in methods.go stay thin wrappers over it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"polarismall.org/mall-web/internal/session"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 10 * time.Second
)

// Error codes the client produces itself; the backend may supply others,
// which are surfaced verbatim.
const (
	CodeRequestFailed   = "REQUEST_FAILED"
	CodeRefreshRequired = "REFRESH_REQUIRED"
	CodeAuthInvalid     = "AUTH_INVALID"
)

const genericFailureMessage = "请求失败"

// Error is the normalized failure shape for non-2xx responses.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// SessionStore gives the client read/replace access to the auth session.
// Replacement is always wholesale; the client never mutates fields in place.
type SessionStore interface {
	Get() session.Session
	Set(session.Session)
}

// Client issues calls against the backend API on behalf of one session.
// The *http.Client is shared across requests; construct one Client per
// request scope with the scope's session store.
type Client struct {
	baseURL string
	http    *http.Client
	session SessionStore
}

// New builds a Client. A nil httpClient gets a default with a conservative
// timeout; everything else is left to the transport.
func New(baseURL string, httpClient *http.Client, sess SessionStore) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: trimBase(baseURL),
		http:    httpClient,
		session: sess,
	}
}

func trimBase(baseURL string) string {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return baseURL
}

// Request performs one HTTP call. path is relative to the API prefix
// (e.g. "/products"). body, when non-nil, is JSON-encoded; json.RawMessage
// passes through untouched. The response body is parsed as JSON with empty
// or invalid payloads tolerated as {}. Non-2xx statuses return *Error built
// from the {error:{code,message}} envelope.
func (c *Client) Request(ctx context.Context, method, path string, body any, header http.Header) (json.RawMessage, error) {
	var reader io.Reader
	hasBody := body != nil
	if hasBody {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if tok := c.session.Get().AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if hasBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	payload := normalizePayload(data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromEnvelope(resp.StatusCode, payload)
	}
	return payload, nil
}

// normalizePayload returns valid JSON, substituting {} for empty or
// malformed bodies.
func normalizePayload(data []byte) json.RawMessage {
	if len(bytes.TrimSpace(data)) == 0 || !json.Valid(data) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(data)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorFromEnvelope(status int, payload json.RawMessage) *Error {
	var env errorEnvelope
	_ = json.Unmarshal(payload, &env)
	e := &Error{
		Status:  status,
		Code:    env.Error.Code,
		Message: env.Error.Message,
	}
	if e.Code == "" {
		e.Code = CodeRequestFailed
	}
	if e.Message == "" {
		e.Message = genericFailureMessage
	}
	return e
}

// IsTransient classifies a failure as likely retryable: transport errors
// (no HTTP status at all), timeouts, throttling and server faults. Callers
// use it to decide between a retry affordance and a terminal message.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return true
	}
	switch {
	case apiErr.Status == 0:
		return true
	case apiErr.Status == http.StatusRequestTimeout:
		return true
	case apiErr.Status == http.StatusTooManyRequests:
		return true
	case apiErr.Status >= 500:
		return true
	default:
		return false
	}
}

// isAbsent reports a 404, which optional sub-resources treat as "no record
// yet" rather than a failure.
func isAbsent(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Message extracts a user-facing text from any client error.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return genericFailureMessage
}
