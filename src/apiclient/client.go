// Package apiclient talks to the fitness tracking JSON API.
//
// Every request goes through Client.Call, which applies the shared defaults
// (JSON content type, request id, cookie jar) and normalizes transport and
// API failures into a single *Error. A 401 from any endpoint runs the
// registered unauthorized handler before the error is returned.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BasePath is the prefix every endpoint is appended to.
const BasePath = "/api"

// DefaultServer is the origin used when none is configured.
const DefaultServer = "http://localhost:7070"

// Options controls a single Call.
type Options struct {
	Method  string            // defaults to GET
	Body    any               // JSON-encoded unless []byte or json.RawMessage
	Headers map[string]string // applied after the defaults, so they win
	Query   url.Values
	Silent  bool // do not notify the user on failure
}

// Client issues requests against one API origin. Cookies set by the server are
// kept in the client's jar and sent with every later request.
type Client struct {
	base       string
	httpClient *http.Client
	journal    *Journal

	mu             sync.RWMutex
	notifier       Notifier
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithNotifier sets where failure notifications go.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithJournal records every call to j.
func WithJournal(j *Journal) Option {
	return func(c *Client) { c.journal = j }
}

// New builds a client for server (scheme://host[:port]). Endpoints are
// resolved below server + BasePath.
func New(server string, opts ...Option) (*Client, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		server = DefaultServer
	}
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server scheme %q", u.Scheme)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	c := &Client{
		base:       strings.TrimRight(u.String(), "/") + BasePath,
		httpClient: &http.Client{Jar: jar},
		notifier:   LogNotifier{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the resolved API prefix.
func (c *Client) BaseURL() string { return c.base }

// SetUnauthorizedHandler registers fn to run whenever a response has status 401.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Call performs one request and returns the raw JSON body of a 2xx response.
// It never retries and sets no timeout of its own; ctx governs cancellation.
func (c *Client) Call(ctx context.Context, endpoint string, opt Options) (json.RawMessage, error) {
	method := opt.Method
	if method == "" {
		method = http.MethodGet
	}
	reqID := uuid.NewString()
	start := time.Now()
	Debugf("API call: %s %s (id=%s)", method, endpoint, reqID)

	data, status, err := c.do(ctx, method, endpoint, reqID, opt)
	rec := &CallRecord{
		RequestID:  reqID,
		Method:     method,
		Endpoint:   endpoint,
		Status:     status,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		c.journal.Record(rec)
		Warnf("API error: %s %s: %v", method, endpoint, err)
		if !opt.Silent {
			c.Notify(Failure(err.Error()))
		}
		return nil, err
	}
	c.journal.Record(rec)
	TimeTrack(start, fmt.Sprintf("API %s %s status=%d", method, endpoint, status))
	return data, nil
}

// CallJSON is Call followed by decoding the body into out (which may be nil).
func (c *Client) CallJSON(ctx context.Context, endpoint string, opt Options, out any) error {
	data, err := c.Call(ctx, endpoint, opt)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint, reqID string, opt Options) (json.RawMessage, int, error) {
	transportErr := func(err error) *Error {
		return &Error{Endpoint: endpoint, Message: err.Error(), RequestID: reqID, Err: err}
	}

	body, err := encodeBody(opt.Body)
	if err != nil {
		return nil, 0, transportErr(err)
	}
	target := c.base + endpoint
	if len(opt.Query) > 0 {
		target += "?" + opt.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, 0, transportErr(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	for k, v := range opt.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, transportErr(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, transportErr(err)
	}
	statusText := statusTextOf(resp)
	Debugf("API response: %d %s (%s %s)", resp.StatusCode, statusText, method, endpoint)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Status:     resp.StatusCode,
			StatusText: statusText,
			Endpoint:   endpoint,
			Message:    errorMessage(raw, resp.StatusCode, statusText),
			RequestID:  reqID,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			Infof("unauthorized response from %s; tearing down session", endpoint)
			c.unauthorized()
		}
		return nil, resp.StatusCode, apiErr
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), resp.StatusCode, nil
	}
	if !json.Valid(trimmed) {
		return nil, resp.StatusCode, transportErr(fmt.Errorf("invalid JSON in %d response from %s", resp.StatusCode, endpoint))
	}
	return json.RawMessage(trimmed), resp.StatusCode, nil
}

// Notify shows n through the current notifier.
func (c *Client) Notify(n Notification) {
	c.mu.RLock()
	nt := c.notifier
	c.mu.RUnlock()
	if nt != nil {
		nt.Notify(n)
	}
}

func (c *Client) unauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func encodeBody(v any) (io.Reader, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// errorMessage extracts {"error": "..."} or synthesizes one from the status.
// A 401 keeps the server's own text ("Invalid credentials", "Unauthorized")
// so a failed login says why; the generic "Please login to continue" is used
// only when the body carries no message.
func errorMessage(raw []byte, status int, statusText string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return body.Error
	}
	if status == http.StatusUnauthorized {
		return unauthorizedMessage
	}
	return synthesizeMessage(status, statusText)
}

func statusTextOf(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
