package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iafilius/FitTrack/src/types"
)

// Endpoint paths below BasePath.
const (
	EndpointLogin       = "/login"
	EndpointSignup      = "/signup"
	EndpointLogout      = "/logout"
	EndpointProgress    = "/progress"
	EndpointLog         = "/log"
	EndpointWorkoutLog  = "/workout-log"
	EndpointGoals       = "/goals"
	EndpointLogs        = "/logs"
	EndpointWorkoutLogs = "/workout-logs"
	EndpointHealth      = "/health"
)

func (c *Client) post(ctx context.Context, endpoint string, body any) (*types.MessageResponse, error) {
	var out types.MessageResponse
	if err := c.CallJSON(ctx, endpoint, Options{Method: http.MethodPost, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login establishes a server session; the cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.MessageResponse, error) {
	return c.post(ctx, EndpointLogin, creds)
}

// Signup creates an account. It does not log in.
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (*types.MessageResponse, error) {
	return c.post(ctx, EndpointSignup, req)
}

// Logout ends the server session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Call(ctx, EndpointLogout, Options{Method: http.MethodPost})
	return err
}

// Progress fetches the snapshot for date (server default when empty). A silent
// call does not notify on failure.
func (c *Client) Progress(ctx context.Context, date string, silent bool) (*types.Progress, error) {
	opt := Options{Silent: silent}
	if date != "" {
		opt.Query = url.Values{"date": []string{date}}
	}
	var p types.Progress
	if err := c.CallJSON(ctx, EndpointProgress, opt, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddLog stores one activity entry.
func (c *Client) AddLog(ctx context.Context, req types.ActivityRequest) (*types.MessageResponse, error) {
	return c.post(ctx, EndpointLog, req)
}

// AddWorkout stores one workout entry.
func (c *Client) AddWorkout(ctx context.Context, req types.WorkoutRequest) (*types.MessageResponse, error) {
	return c.post(ctx, EndpointWorkoutLog, req)
}

// SetGoals stores the daily goals.
func (c *Client) SetGoals(ctx context.Context, req types.GoalsRequest) (*types.MessageResponse, error) {
	return c.post(ctx, EndpointGoals, req)
}

// Logs lists activity entries, most recent first.
func (c *Client) Logs(ctx context.Context) ([]types.ActivityLog, error) {
	var logs []types.ActivityLog
	if err := c.CallJSON(ctx, EndpointLogs, Options{}, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// WorkoutLogs lists workout entries.
func (c *Client) WorkoutLogs(ctx context.Context) ([]types.WorkoutLog, error) {
	var logs []types.WorkoutLog
	if err := c.CallJSON(ctx, EndpointWorkoutLogs, Options{}, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Health checks the unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context, silent bool) (*types.Health, error) {
	var h types.Health
	if err := c.CallJSON(ctx, EndpointHealth, Options{Silent: silent}, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
