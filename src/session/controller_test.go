package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/apitest"
)

// fakeView records which region is visible and what happened to the forms.
type fakeView struct {
	mu          sync.Mutex
	appVisible  bool
	greeting    string
	loginTab    string
	loginResets int
	signResets  int
}

func (v *fakeView) ShowAuth() {
	v.mu.Lock()
	v.appVisible = false
	v.greeting = ""
	v.mu.Unlock()
}

func (v *fakeView) ShowApp(greeting string) {
	v.mu.Lock()
	v.appVisible = true
	v.greeting = greeting
	v.mu.Unlock()
}

func (v *fakeView) ShowLoginTab(username string) {
	v.mu.Lock()
	v.loginTab = username
	v.mu.Unlock()
}

func (v *fakeView) ResetLoginForm() {
	v.mu.Lock()
	v.loginResets++
	v.mu.Unlock()
}

func (v *fakeView) ResetSignupForm() {
	v.mu.Lock()
	v.signResets++
	v.mu.Unlock()
}

type fakeDashboard struct {
	client *apiclient.Client
	loads  int
	resets int
}

func (d *fakeDashboard) LoadProgress(ctx context.Context) error {
	d.loads++
	_, err := d.client.Progress(ctx, "", false)
	return err
}

func (d *fakeDashboard) Reset() { d.resets++ }

type notes struct {
	mu   sync.Mutex
	list []apiclient.Notification
}

func (n *notes) Notify(x apiclient.Notification) {
	n.mu.Lock()
	n.list = append(n.list, x)
	n.mu.Unlock()
}

func (n *notes) texts() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, x := range n.list {
		out = append(out, x.Text)
	}
	return out
}

func (n *notes) last() apiclient.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.list) == 0 {
		return apiclient.Notification{}
	}
	return n.list[len(n.list)-1]
}

type fixture struct {
	srv   *apitest.Server
	ctl   *Controller
	view  *fakeView
	dash  *fakeDashboard
	notes *notes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("alice", "secret1")
	n := &notes{}
	client, err := apiclient.New(srv.URL, apiclient.WithNotifier(n))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	view := &fakeView{}
	ctl := NewController(client, view)
	dash := &fakeDashboard{client: client}
	ctl.Attach(dash)
	return &fixture{srv: srv, ctl: ctl, view: view, dash: dash, notes: n}
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	cases := []struct {
		name, user, pass string
	}{
		{"empty user", "", "secret1"},
		{"blank user", "   ", "secret1"},
		{"empty password", "alice", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.ctl.Login(context.Background(), tc.user, tc.pass)
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			if n := len(f.srv.Requests()); n != 0 {
				t.Fatalf("expected no requests, got %d", n)
			}
			if got := f.notes.last(); got.Kind != apiclient.KindError || got.Text != ErrMissingCredentials.Error() {
				t.Fatalf("expected error notification, got %+v", got)
			}
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	if err := f.ctl.Login(context.Background(), "  alice ", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !f.ctl.Authenticated() || f.ctl.User() != "alice" {
		t.Fatalf("expected alice authenticated, got %v/%q", f.ctl.Authenticated(), f.ctl.User())
	}
	if !f.view.appVisible || f.view.greeting != "Welcome, alice!" {
		t.Fatalf("expected app visible with greeting, got %v %q", f.view.appVisible, f.view.greeting)
	}
	if f.view.loginResets != 1 {
		t.Fatalf("expected login form reset")
	}
	if f.dash.loads != 1 {
		t.Fatalf("expected one progress refresh, got %d", f.dash.loads)
	}
	if got := f.notes.last(); got.Text != MsgLoginOK || got.Kind != apiclient.KindSuccess {
		t.Fatalf("expected %q, got %+v", MsgLoginOK, got)
	}
}

func TestLoginFailureLeavesStateUnauthenticated(t *testing.T) {
	f := newFixture(t)
	err := f.ctl.Login(context.Background(), "alice", "wrongpw")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", err.Error())
	}
	if f.ctl.Authenticated() || f.view.appVisible {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestSignupValidation(t *testing.T) {
	cases := []struct {
		name, user, pass string
		want             error
	}{
		{"missing", "", "secret1", ErrMissingCredentials},
		{"short user", "ab", "secret1", ErrUsernameTooShort},
		{"short user after trim", " ab ", "secret1", ErrUsernameTooShort},
		{"short password", "bob", "12345", ErrPasswordTooShort},
		{"runes not bytes", "bob", "ééééé", ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.ctl.Signup(context.Background(), tc.user, tc.pass, "")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if n := len(f.srv.Requests()); n != 0 {
				t.Fatalf("expected no requests, got %d", n)
			}
		})
	}
}

func TestSignupSuccessDoesNotAuthenticate(t *testing.T) {
	f := newFixture(t)
	if err := f.ctl.Signup(context.Background(), "bob", "secret1", ""); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if f.ctl.Authenticated() {
		t.Fatalf("signup must not authenticate")
	}
	if f.view.loginTab != "bob" || f.view.signResets != 1 {
		t.Fatalf("expected login tab prefilled and signup form reset, got %q/%d", f.view.loginTab, f.view.signResets)
	}
	if got := f.notes.last(); got.Text != MsgSignupOK {
		t.Fatalf("expected %q, got %q", MsgSignupOK, got.Text)
	}
	reqs := f.srv.Requests()
	if len(reqs) != 1 || string(reqs[0].Body) != `{"username":"bob","password":"secret1","email":null}` {
		t.Fatalf("unexpected signup body: %+v", reqs)
	}
}

func TestSignupConflictSurfacesServerMessage(t *testing.T) {
	f := newFixture(t)
	err := f.ctl.Signup(context.Background(), "alice", "secret1", "a@example.com")
	if err == nil || err.Error() != "Username already taken" {
		t.Fatalf("expected conflict message, got %v", err)
	}
	if apiclient.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %d", apiclient.StatusOf(err))
	}
}

func TestLogoutAlwaysTearsDown(t *testing.T) {
	for _, failing := range []bool{false, true} {
		f := newFixture(t)
		ctx := context.Background()
		if err := f.ctl.Login(ctx, "alice", "secret1"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if failing {
			f.srv.Fail("/logout", http.StatusInternalServerError, `{"error":"db down"}`)
		}
		err := f.ctl.Logout(ctx)
		if failing && err == nil {
			t.Fatalf("expected logout error")
		}
		if !failing && err != nil {
			t.Fatalf("logout: %v", err)
		}
		if f.ctl.Authenticated() || f.view.appVisible {
			t.Fatalf("failing=%v: expected unauthenticated visible state", failing)
		}
		if f.dash.resets == 0 {
			t.Fatalf("failing=%v: expected dashboard reset", failing)
		}
		texts := f.notes.texts()
		sawOK := false
		for _, s := range texts {
			if s == MsgLogoutOK {
				sawOK = true
			}
		}
		if sawOK == failing {
			t.Fatalf("failing=%v: logout success message shown=%v", failing, sawOK)
		}
	}
}

func TestUnauthorizedFromAnyCallTearsDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.ctl.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.srv.ExpireSessions()
	resets := f.dash.resets
	if _, err := f.ctl.client.Logs(ctx); !apiclient.IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	if f.ctl.Authenticated() || f.view.appVisible {
		t.Fatalf("401 must tear the session down")
	}
	if f.dash.resets != resets+1 {
		t.Fatalf("expected dashboard reset on 401")
	}
	if got := f.notes.last(); got.Text != "Unauthorized" {
		t.Fatalf("expected server 401 message, got %q", got.Text)
	}
}

func TestProbe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if f.ctl.Probe(ctx) {
		t.Fatalf("probe without cookie should fail")
	}
	if f.view.appVisible || len(f.notes.texts()) != 0 {
		t.Fatalf("failed probe must show auth silently, notes=%v", f.notes.texts())
	}

	if err := f.ctl.Login(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.ctl.Teardown()
	if !f.ctl.Probe(ctx) {
		t.Fatalf("probe with live cookie should succeed")
	}
	if !f.ctl.Authenticated() || f.view.greeting != GreetingBack {
		t.Fatalf("expected restored session with %q, got %q", GreetingBack, f.view.greeting)
	}
	if f.ctl.User() != "" {
		t.Fatalf("probe does not learn the username, got %q", f.ctl.User())
	}
}

func TestProbeTransportFailure(t *testing.T) {
	f := newFixture(t)
	f.srv.Close()
	if f.ctl.Probe(context.Background()) {
		t.Fatalf("probe against closed server must report unauthenticated")
	}
	if f.view.appVisible {
		t.Fatalf("auth region should be visible")
	}
}
