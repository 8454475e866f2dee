// FitTrack command-line client.
//
// One action per invocation against a FitTrack server:
//
//	probe         check whether the session is live (after logging in when credentials are given)
//	progress      show today's (or -date's) progress against goals
//	log           log an activity (-steps -calories -protein -carbs -fats -workout-type -notes)
//	workout       log a workout (-workout-type -exercise -sets -reps -notes)
//	goals         set daily goals (-steps -calories -protein -carbs -fats)
//	logs          list activity history
//	workout-logs  list workout history
//	signup        create an account (-user -password -email)
//	report        render every chart region to PNG files in -out
//
// Design notes:
//   - Every action except signup logs in first with -user/-password; the session lives only as long as
//     the process (the cookie jar is in memory).
//   - Numeric form flags are strings on purpose: they go through the same lenient parsing as the GUI forms.
//   - Exit codes: 0 success, 1 action failed, 2 usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/dashboard"
	"github.com/iafilius/FitTrack/src/session"
	"github.com/iafilius/FitTrack/src/views"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	defaultOut  = "fittrack_report"
	envServer   = "FITTRACK_SERVER"
	envUser     = "FITTRACK_USER"
	envPassword = "FITTRACK_PASSWORD"
)

var actions = []string{"probe", "progress", "log", "workout", "goals", "logs", "workout-logs", "signup", "report"}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type options struct {
	server   string
	user     string
	password string
	email    string
	logLevel string
	journal  string
	action   string
	date     string
	out      string
	logout   bool

	steps       string
	calories    string
	protein     string
	carbs       string
	fats        string
	workoutType string
	exercise    string
	sets        string
	reps        string
	notes       string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("fittrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.server, "server", envOr(envServer, apiclient.DefaultServer), "FitTrack server origin (env "+envServer+")")
	fs.StringVar(&o.user, "user", envOr(envUser, ""), "Username (env "+envUser+")")
	fs.StringVar(&o.password, "password", envOr(envPassword, ""), "Password (env "+envPassword+")")
	fs.StringVar(&o.email, "email", "", "Email for signup (optional)")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&o.journal, "journal", "", "Append one JSON line per API call to this file (empty disables)")
	fs.StringVar(&o.action, "action", "progress", "Action: "+strings.Join(actions, "|"))
	fs.StringVar(&o.date, "date", "", "Date YYYY-MM-DD for progress, log, workout and goals (default: server today)")
	fs.StringVar(&o.out, "out", defaultOut, "Directory for report PNGs")
	fs.BoolVar(&o.logout, "logout", false, "Log out after the action")
	fs.StringVar(&o.steps, "steps", "", "Steps (log) or steps goal (goals)")
	fs.StringVar(&o.calories, "calories", "", "Calories (log) or calories goal (goals)")
	fs.StringVar(&o.protein, "protein", "", "Protein grams")
	fs.StringVar(&o.carbs, "carbs", "", "Carbohydrate grams")
	fs.StringVar(&o.fats, "fats", "", "Fat grams")
	fs.StringVar(&o.workoutType, "workout-type", "", "Workout type (Cardio, Strength, ...)")
	fs.StringVar(&o.exercise, "exercise", "", "Exercise name")
	fs.StringVar(&o.sets, "sets", "", "Sets")
	fs.StringVar(&o.reps, "reps", "", "Reps")
	fs.StringVar(&o.notes, "notes", "", "Free-form notes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.action = strings.ToLower(strings.TrimSpace(o.action))
	known := false
	for _, a := range actions {
		if a == o.action {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown action %q (want one of %s)", o.action, strings.Join(actions, ", "))
	}
	return o, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}
	defer apiclient.SetLogOutput(apiclient.SetLogOutput(stderr))
	if err := apiclient.SetLogLevel(o.logLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	out := newTextDisplay(stdout, stderr)
	clientOpts := []apiclient.Option{apiclient.WithNotifier(out)}
	if o.journal != "" {
		j, err := apiclient.OpenJournal(o.journal)
		if err != nil {
			fmt.Fprintf(stderr, "journal: %v\n", err)
			return exitUsage
		}
		defer j.Close()
		clientOpts = append(clientOpts, apiclient.WithJournal(j))
	}
	client, err := apiclient.New(o.server, clientOpts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	renderer := views.NewRenderer(nil)
	ctl := session.NewController(client, out)
	dash := dashboard.New(client, renderer, out)
	ctl.Attach(dash)
	if err := dash.SetDate(o.date); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	var sink *reportSink
	if o.action == "report" {
		if sink, err = bindReportSurfaces(renderer, o.out); err != nil {
			fmt.Fprintf(stderr, "report: %v\n", err)
			return exitFailed
		}
	}

	if err := perform(ctx, o, ctl, dash, out); err != nil {
		apiclient.Debugf("action %s failed: %v", o.action, err)
		return exitFailed
	}
	if sink != nil {
		if err := sink.Err(); err != nil {
			fmt.Fprintf(stderr, "report: %v\n", err)
			return exitFailed
		}
	}
	if o.logout && ctl.Authenticated() {
		if err := ctl.Logout(ctx); err != nil {
			return exitFailed
		}
	}
	return exitOK
}

// perform runs the selected action. Errors have already been shown to the
// user by the notifier or the display.
func perform(ctx context.Context, o *options, ctl *session.Controller, dash *dashboard.Dashboard, out *textDisplay) error {
	if o.action == "signup" {
		return ctl.Signup(ctx, o.user, o.password, o.email)
	}
	if o.action == "probe" {
		if o.user != "" || o.password != "" {
			if err := ctl.Login(ctx, o.user, o.password); err != nil {
				return err
			}
		}
		if !ctl.Probe(ctx) {
			return errors.New("not authenticated")
		}
		return nil
	}

	// Login already shows the first progress snapshot.
	if err := ctl.Login(ctx, o.user, o.password); err != nil {
		return err
	}
	switch o.action {
	case "progress":
		return out.progressErr()
	case "log":
		return dash.LogActivity(ctx, dashboard.ActivityForm{
			Date: o.date, Steps: o.steps, Calories: o.calories,
			Protein: o.protein, Carbs: o.carbs, Fats: o.fats,
			WorkoutType: o.workoutType, Notes: o.notes,
		})
	case "workout":
		return dash.LogWorkout(ctx, dashboard.WorkoutForm{
			Date: o.date, WorkoutType: o.workoutType, Exercise: o.exercise,
			Sets: o.sets, Reps: o.reps, Notes: o.notes,
		})
	case "goals":
		return dash.SetGoals(ctx, dashboard.GoalsForm{
			Date: o.date, Steps: o.steps, Calories: o.calories,
			Protein: o.protein, Carbs: o.carbs, Fats: o.fats,
		})
	case "logs":
		return dash.LoadActivityLogs(ctx)
	case "workout-logs":
		return dash.LoadWorkoutLogs(ctx)
	case "report":
		if err := out.progressErr(); err != nil {
			return err
		}
		return dash.LoadAnalytics(ctx)
	}
	return fmt.Errorf("unhandled action %q", o.action)
}
