package session

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/types"
)

// Validation failures. Their text is what the user sees.
var (
	ErrMissingCredentials = errors.New("Please enter both username and password")
	ErrUsernameTooShort   = errors.New("Username must be at least 3 characters long")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters long")
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 6
)

// User-facing confirmations.
const (
	MsgLoginOK   = "Login successful!"
	MsgSignupOK  = "Account created successfully! Please login."
	MsgLogoutOK  = "Logged out successfully!"
	GreetingBack = "Welcome back!"
)

// Greeting is the header text shown after an explicit login.
func Greeting(user string) string { return "Welcome, " + user + "!" }

// View is the part of a front end the controller drives. Implementations
// must be safe to call from any goroutine.
type View interface {
	ShowAuth()
	ShowApp(greeting string)
	// ShowLoginTab switches to the login form, pre-fills the username and
	// focuses the password field.
	ShowLoginTab(username string)
	ResetLoginForm()
	ResetSignupForm()
}

// Dashboard is the authenticated part of the app the controller refreshes on
// login and wipes on teardown.
type Dashboard interface {
	LoadProgress(ctx context.Context) error
	Reset()
}

// Controller runs login, signup, logout and the startup probe.
type Controller struct {
	client *apiclient.Client
	view   View
	state  State
	dash   Dashboard
}

// NewController wires c to view and registers Teardown as the client's
// unauthorized handler, so a 401 from any endpoint ends the session.
func NewController(client *apiclient.Client, view View) *Controller {
	c := &Controller{client: client, view: view}
	client.SetUnauthorizedHandler(c.Teardown)
	return c
}

// Attach sets the dashboard refreshed after login and reset on teardown.
func (c *Controller) Attach(d Dashboard) { c.dash = d }

// Authenticated reports the session flag.
func (c *Controller) Authenticated() bool { return c.state.Authenticated() }

// User returns the logged-in username, if known.
func (c *Controller) User() string { return c.state.User() }

func (c *Controller) reject(err error) error {
	c.client.Notify(apiclient.Failure(err.Error()))
	return err
}

// Login validates the credentials, posts them and on success switches to the
// authenticated region and loads the first progress snapshot.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return c.reject(ErrMissingCredentials)
	}
	if _, err := c.client.Login(ctx, types.Credentials{Username: username, Password: password}); err != nil {
		return err
	}
	c.state.set(username)
	c.view.ShowApp(Greeting(username))
	c.view.ResetLoginForm()
	c.refresh(ctx)
	c.client.Notify(apiclient.Success(MsgLoginOK))
	apiclient.Infof("logged in as %s", username)
	return nil
}

// Signup validates and creates an account, then sends the user back to the
// login form. It never authenticates.
func (c *Controller) Signup(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return c.reject(ErrMissingCredentials)
	}
	if utf8.RuneCountInString(username) < MinUsernameLen {
		return c.reject(ErrUsernameTooShort)
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return c.reject(ErrPasswordTooShort)
	}
	req := types.SignupRequest{Username: username, Password: password}
	if email != "" {
		req.Email = &email
	}
	if _, err := c.client.Signup(ctx, req); err != nil {
		return err
	}
	c.client.Notify(apiclient.Success(MsgSignupOK))
	c.view.ShowLoginTab(username)
	c.view.ResetSignupForm()
	return nil
}

// Logout ends the server session. Local state is torn down whatever the
// outcome of the request; the returned error is the request's.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.client.Logout(ctx)
	c.Teardown()
	if err != nil {
		apiclient.Debugf("logout request failed, local session cleared anyway: %v", err)
		return err
	}
	c.client.Notify(apiclient.Success(MsgLogoutOK))
	return nil
}

// Teardown drops the local session: flag cleared, unauthenticated region
// shown, charts released, forms and displays reset. Safe to call repeatedly.
func (c *Controller) Teardown() {
	if c.state.clear() {
		apiclient.Debugf("session torn down")
	}
	c.view.ShowAuth()
	c.view.ResetLoginForm()
	c.view.ResetSignupForm()
	if c.dash != nil {
		c.dash.Reset()
	}
}

// Probe checks silently whether the cookie jar already holds a live session.
// Any failure, including a network error, counts as not authenticated.
func (c *Controller) Probe(ctx context.Context) bool {
	if _, err := c.client.Progress(ctx, "", true); err != nil {
		apiclient.Debugf("startup probe: not authenticated: %v", err)
		c.state.clear()
		c.view.ShowAuth()
		return false
	}
	c.state.set("")
	c.view.ShowApp(GreetingBack)
	c.refresh(ctx)
	return true
}

func (c *Controller) refresh(ctx context.Context) {
	if c.dash == nil {
		return
	}
	if err := c.dash.LoadProgress(ctx); err != nil {
		apiclient.Debugf("progress refresh failed: %v", err)
	}
}
