package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/iafilius/FitTrack/src/apitest"
	"github.com/iafilius/FitTrack/src/types"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	r.msgs = append(r.msgs, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.msgs...)
}

func newTestClient(t *testing.T, url string) (*Client, *recordingNotifier) {
	t.Helper()
	rn := &recordingNotifier{}
	c, err := New(url, WithNotifier(rn))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, rn
}

func TestCookieSentOnEveryEndpointAfterLogin(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("alice", "secret1")
	c, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	if _, err := c.Login(ctx, types.Credentials{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.Progress(ctx, "", false); err != nil {
		t.Fatalf("progress: %v", err)
	}
	if _, err := c.AddLog(ctx, types.ActivityRequest{Steps: 100}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := c.AddWorkout(ctx, types.WorkoutRequest{WorkoutType: "Strength", Exercise: "Squat", Sets: 3, Reps: 5}); err != nil {
		t.Fatalf("workout: %v", err)
	}
	steps := 10000
	if _, err := c.SetGoals(ctx, types.GoalsRequest{StepsGoal: &steps}); err != nil {
		t.Fatalf("goals: %v", err)
	}
	if _, err := c.Logs(ctx); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if _, err := c.WorkoutLogs(ctx); err != nil {
		t.Fatalf("workout logs: %v", err)
	}
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 8 {
		t.Fatalf("expected 8 requests, got %d", len(reqs))
	}
	for _, r := range reqs[1:] {
		if !r.HasCookie {
			t.Fatalf("request %s %s sent without session cookie", r.Method, r.Path)
		}
	}
}

func TestDefaultHeadersAndCallerOverride(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()
	c, _ := newTestClient(t, ts.URL)

	if _, err := c.Call(context.Background(), "/x", Options{}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if ct := got.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected default content type, got %q", ct)
	}
	if got.Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	_, err := c.Call(context.Background(), "/x", Options{Headers: map[string]string{"Content-Type": "text/plain", "X-Extra": "1"}})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if ct := got.Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("caller header should win, got %q", ct)
	}
	if got.Get("X-Extra") != "1" {
		t.Fatalf("caller header missing")
	}
}

func TestCallReturnsBodyAsIs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/progress" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("date") != "2025-03-01" {
			t.Errorf("missing date query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"date":"2025-03-01","sum":{"steps":4000},"unknown":[1,2]}`))
	}))
	defer ts.Close()
	c, _ := newTestClient(t, ts.URL)

	data, err := c.Call(context.Background(), EndpointProgress, Options{Query: map[string][]string{"date": {"2025-03-01"}}})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !strings.Contains(string(data), `"unknown":[1,2]`) {
		t.Fatalf("body should be returned untouched: %s", data)
	}
}

func TestErrorMessageResolution(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusConflict, `{"error":"Username already taken"}`, "Username already taken"},
		{"html body", http.StatusInternalServerError, `<html>boom</html>`, "HTTP 500: Internal Server Error"},
		{"empty body", http.StatusBadGateway, ``, "HTTP 502: Bad Gateway"},
		{"json without error field", http.StatusBadRequest, `{"detail":"x"}`, "HTTP 400: Bad Request"},
		{"unauthorized without message", http.StatusUnauthorized, ``, "Please login to continue"},
		{"unauthorized with message", http.StatusUnauthorized, `{"error":"Invalid credentials"}`, "Invalid credentials"},
		{"unauthorized keeps server text", http.StatusUnauthorized, `{"error":"Unauthorized"}`, "Unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := apitest.New()
			defer srv.Close()
			srv.Fail("/signup", tc.status, tc.body)
			c, rn := newTestClient(t, srv.URL)

			_, err := c.Signup(context.Background(), types.SignupRequest{Username: "bob", Password: "secret1"})
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if apiErr.Error() != tc.want {
				t.Fatalf("expected message %q, got %q", tc.want, apiErr.Error())
			}
			if apiErr.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, apiErr.Status)
			}
			msgs := rn.all()
			if len(msgs) != 1 || msgs[0].Kind != KindError || msgs[0].Text != tc.want {
				t.Fatalf("expected one error notification %q, got %+v", tc.want, msgs)
			}
		})
	}
}

func TestUnauthorizedRunsHandlerOnAnyEndpoint(t *testing.T) {
	endpoints := []string{EndpointProgress, EndpointLogs, EndpointWorkoutLogs, EndpointLog, EndpointGoals, EndpointWorkoutLog, EndpointLogout}
	for _, ep := range endpoints {
		t.Run(ep, func(t *testing.T) {
			srv := apitest.New()
			defer srv.Close()
			c, _ := newTestClient(t, srv.URL)
			calls := 0
			c.SetUnauthorizedHandler(func() { calls++ })

			method := http.MethodGet
			if ep == EndpointLog || ep == EndpointGoals || ep == EndpointWorkoutLog || ep == EndpointLogout {
				method = http.MethodPost
			}
			_, err := c.Call(context.Background(), ep, Options{Method: method, Body: map[string]any{}})
			if !IsUnauthorized(err) {
				t.Fatalf("expected unauthorized error, got %v", err)
			}
			if calls != 1 {
				t.Fatalf("expected handler to run once, ran %d times", calls)
			}
		})
	}
}

func TestSilentCallDoesNotNotify(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	c, rn := newTestClient(t, srv.URL)

	if _, err := c.Progress(context.Background(), "", true); err == nil {
		t.Fatalf("expected error for unauthenticated probe")
	}
	if n := len(rn.all()); n != 0 {
		t.Fatalf("silent call notified %d times", n)
	}
}

func TestTransportErrorNormalized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()
	c, rn := newTestClient(t, url)

	_, err := c.Call(context.Background(), EndpointLogs, Options{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !apiErr.Transport() {
		t.Fatalf("expected transport failure, status=%d", apiErr.Status)
	}
	if apiErr.Unwrap() == nil || apiErr.Error() != apiErr.Unwrap().Error() {
		t.Fatalf("transport message should be the underlying error text: %q", apiErr.Error())
	}
	if IsUnauthorized(err) {
		t.Fatalf("transport failure must not look unauthorized")
	}
	if len(rn.all()) != 1 {
		t.Fatalf("expected transport failure to be notified")
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date":`))
	}))
	defer ts.Close()
	c, _ := newTestClient(t, ts.URL)
	if _, err := c.Call(context.Background(), EndpointProgress, Options{}); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestEmptySuccessBodyIsNull(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()
	c, _ := newTestClient(t, ts.URL)
	data, err := c.Call(context.Background(), EndpointLogout, Options{Method: http.MethodPost})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("expected null, got %s", data)
	}
}

func TestNewRejectsBadScheme(t *testing.T) {
	if _, err := New("ftp://example.com"); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
	c, err := New("")
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if c.BaseURL() != DefaultServer+BasePath {
		t.Fatalf("expected default base, got %s", c.BaseURL())
	}
}
