package main

import (
	"context"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/FitTrack/src/analysis"
	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/apitest"
	"github.com/iafilius/FitTrack/src/dashboard"
	"github.com/iafilius/FitTrack/src/session"
	"github.com/iafilius/FitTrack/src/types"
	"github.com/iafilius/FitTrack/src/views"
)

func newTestUI(t *testing.T) (*uiState, *apitest.Server) {
	t.Helper()
	a := test.NewTempApp(t)
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.SetToday("2025-03-07")
	srv.AddUser("alice", "secret1")

	notes := newNotificationArea()
	client, err := apiclient.New(srv.URL, apiclient.WithNotifier(notes))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	w := a.NewWindow("test")
	renderer := views.NewRenderer(views.NewLayoutGate())
	st := &uiState{app: a, window: w, ctx: context.Background(), server: srv.URL, renderer: renderer, notes: notes}
	st.ctl = session.NewController(client, st)
	st.dash = dashboard.New(client, renderer, st)
	st.ctl.Attach(st.dash)
	w.SetContent(st.build())
	t.Cleanup(renderer.ReleaseAll)
	return st, srv
}

func boxText(st *uiState, which string) string {
	var b strings.Builder
	box := st.progressBox
	switch which {
	case "activity":
		box = st.activityList
	case "workout":
		box = st.workoutList
	}
	for _, o := range box.Objects {
		switch w := o.(type) {
		case *widget.Label:
			b.WriteString(w.Text + "\n")
		case *widget.Card:
			b.WriteString(w.Title + "\n")
		}
	}
	return b.String()
}

func TestStartsInAuthRegion(t *testing.T) {
	st, _ := newTestUI(t)
	if !st.authRegion.Visible() || st.appRegion.Visible() {
		t.Fatalf("expected only the auth region visible")
	}
}

func TestLoginShowsAppAndRemembersUser(t *testing.T) {
	st, srv := newTestUI(t)
	srv.AddActivity("alice", types.ActivityLog{Steps: 4000, Calories: 1800, Protein: 50, Carbohydrates: 120, Fats: 40})
	if err := st.ctl.Login(st.ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !st.renderer.Gate().Ready() {
		t.Fatalf("expected the layout gate open once ShowApp returns")
	}
	st.rememberLogin("alice")
	if st.authRegion.Visible() || !st.appRegion.Visible() {
		t.Fatalf("expected the app region after login")
	}
	if st.greeting.Text != "Welcome, alice!" {
		t.Fatalf("expected greeting, got %q", st.greeting.Text)
	}
	if got := boxText(st, "progress"); !strings.Contains(got, "Today (2025-03-07)") || !strings.Contains(got, analysis.NoGoalsHint) {
		t.Fatalf("unexpected progress view:\n%s", got)
	}
	if _, msg, ok := st.renderer.Snapshot(views.RegionProgress); !ok || msg != views.MsgNoGoals {
		t.Fatalf("expected no-goals placeholder, got ok=%v msg=%q", ok, msg)
	}
	if got := st.app.Preferences().String(prefLastUsername); got != "alice" {
		t.Fatalf("expected remembered username, got %q", got)
	}
	if st.loginPass.Text != "" {
		t.Fatalf("expected password cleared")
	}
}

func TestUnauthorizedReturnsToAuth(t *testing.T) {
	st, srv := newTestUI(t)
	if err := st.ctl.Login(st.ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	srv.ExpireSessions()
	if err := st.dash.LoadActivityLogs(st.ctx); err == nil {
		t.Fatalf("expected an error after the session expired")
	}
	if !st.authRegion.Visible() || st.appRegion.Visible() {
		t.Fatalf("expected the auth region after a 401")
	}
	if st.renderer.Registry().Count() != 0 {
		t.Fatalf("expected every chart released")
	}
	if st.renderer.Gate().Ready() {
		t.Fatalf("expected the layout gate closed again")
	}
}

func TestHistoryLists(t *testing.T) {
	st, srv := newTestUI(t)
	if err := st.ctl.Login(st.ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := st.dash.LoadActivityLogs(st.ctx); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if got := boxText(st, "activity"); !strings.Contains(got, dashboard.MsgNoActivityLogs) {
		t.Fatalf("expected empty-state text, got %q", got)
	}
	srv.AddWorkout("alice", types.WorkoutLog{WorkoutType: "Strength", Exercise: "Squat", Sets: 3, Reps: 5})
	if err := st.dash.LoadWorkoutLogs(st.ctx); err != nil {
		t.Fatalf("workouts: %v", err)
	}
	if n := len(st.workoutList.Objects); n != 1 {
		t.Fatalf("expected one workout card, got %d", n)
	}
	if _, ok := st.workoutList.Objects[0].(*widget.Card); !ok {
		t.Fatalf("expected a card, got %T", st.workoutList.Objects[0])
	}
}

func TestActivityFormResetAfterLogging(t *testing.T) {
	st, srv := newTestUI(t)
	if err := st.ctl.Login(st.ctx, "alice", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	st.activity.steps.SetText("1200")
	st.activity.workoutType.SetText("Cardio")
	f := dashboard.ActivityForm{Steps: st.activity.steps.Text, WorkoutType: st.activity.workoutType.Text}
	if err := st.dash.LogActivity(st.ctx, f); err != nil {
		t.Fatalf("log: %v", err)
	}
	if st.activity.steps.Text != "" || st.activity.workoutType.Text != "" {
		t.Fatalf("expected the activity form reset")
	}
	if srv.RequestCount(apiclient.EndpointLog) != 1 {
		t.Fatalf("expected one /log call")
	}
}

func TestNotificationAreaKeepsNewest(t *testing.T) {
	_ = test.NewTempApp(t)
	a := newNotificationArea()
	for i := 0; i < maxVisibleNotifications+2; i++ {
		a.Notify(apiclient.Notification{Kind: apiclient.KindError, Text: "boom"})
	}
	if n := len(a.box.Objects); n != maxVisibleNotifications {
		t.Fatalf("expected %d visible, got %d", maxVisibleNotifications, n)
	}
	a.dismiss(a.stack[len(a.stack)-1].id)
	if n := len(a.stack); n != maxVisibleNotifications+1 {
		t.Fatalf("expected one dismissed, got %d left", n)
	}
}
