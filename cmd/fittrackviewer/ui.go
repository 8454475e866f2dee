package main

import (
	"context"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/FitTrack/cmd/fittrackviewer/uihelpers"
	"github.com/iafilius/FitTrack/src/analysis"
	"github.com/iafilius/FitTrack/src/dashboard"
	"github.com/iafilius/FitTrack/src/session"
	"github.com/iafilius/FitTrack/src/types"
	"github.com/iafilius/FitTrack/src/views"
)

var workoutTypes = []string{"Cardio", "Strength", "Flexibility", "HIIT", "Sports", "Other"}

var (
	_ session.View      = (*uiState)(nil)
	_ dashboard.Display = (*uiState)(nil)
)

// uiState owns the widgets. It is the session view and the dashboard
// display of the GUI; every method may be called off the UI goroutine.
type uiState struct {
	app      fyne.App
	window   fyne.Window
	ctx      context.Context
	server   string
	renderer *views.Renderer
	ctl      *session.Controller
	dash     *dashboard.Dashboard
	notes    *notificationArea

	surfaces map[views.Region]*chartSurface

	// auth region
	authRegion  *fyne.Container
	authTabs    *container.AppTabs
	loginUser   *widget.Entry
	loginPass   *widget.Entry
	signupUser  *widget.Entry
	signupPass  *widget.Entry
	signupEmail *widget.Entry
	serverLabel *widget.Label

	// app region
	appRegion    *fyne.Container
	appTabs      *container.AppTabs
	greeting     *widget.Label
	progressBox  *fyne.Container
	activityList *fyne.Container
	workoutList  *fyne.Container

	activity activityWidgets
	workout  workoutWidgets
	goals    goalsWidgets
}

type activityWidgets struct {
	date, steps, calories, protein, carbs, fats, notes *widget.Entry
	workoutType                                        *widget.SelectEntry
}

type workoutWidgets struct {
	date, exercise, sets, reps, notes *widget.Entry
	workoutType                       *widget.SelectEntry
}

type goalsWidgets struct {
	date, steps, calories, protein, carbs, fats *widget.Entry
}

func numberEntry(placeholder string) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	return e
}

// build creates both regions. Only the auth region is visible afterwards.
func (st *uiState) build() fyne.CanvasObject {
	st.surfaces = map[views.Region]*chartSurface{}
	for _, region := range views.AllRegions {
		s := newChartSurface(480, 240)
		st.surfaces[region] = s
		st.renderer.Bind(region, s)
	}
	st.authRegion = st.buildAuth()
	st.appRegion = st.buildApp()
	st.appRegion.Hide()
	return container.NewBorder(st.notes.box, nil, nil, nil, container.NewStack(st.authRegion, st.appRegion))
}

func (st *uiState) buildAuth() *fyne.Container {
	st.loginUser = widget.NewEntry()
	st.loginUser.SetPlaceHolder("Username")
	st.loginUser.SetText(st.app.Preferences().StringWithFallback(prefLastUsername, ""))
	st.loginPass = widget.NewPasswordEntry()
	st.loginPass.SetPlaceHolder("Password")
	login := func() {
		user, pass := st.loginUser.Text, st.loginPass.Text
		go func() {
			if err := st.ctl.Login(st.ctx, user, pass); err == nil {
				st.rememberLogin(strings.TrimSpace(user))
			}
		}()
	}
	st.loginPass.OnSubmitted = func(string) { login() }
	loginForm := container.NewVBox(st.loginUser, st.loginPass, widget.NewButton("Login", login))

	st.signupUser = widget.NewEntry()
	st.signupUser.SetPlaceHolder("Username (min 3 characters)")
	st.signupPass = widget.NewPasswordEntry()
	st.signupPass.SetPlaceHolder("Password (min 6 characters)")
	st.signupEmail = widget.NewEntry()
	st.signupEmail.SetPlaceHolder("Email (optional)")
	signup := func() {
		user, pass, email := st.signupUser.Text, st.signupPass.Text, st.signupEmail.Text
		go func() { _ = st.ctl.Signup(st.ctx, user, pass, email) }()
	}
	signupForm := container.NewVBox(st.signupUser, st.signupPass, st.signupEmail, widget.NewButton("Sign Up", signup))

	st.authTabs = container.NewAppTabs(
		container.NewTabItem("Login", loginForm),
		container.NewTabItem("Sign Up", signupForm),
	)
	st.serverLabel = widget.NewLabel("Server: " + uihelpers.Truncate(st.server, 48))
	st.serverLabel.Importance = widget.LowImportance
	title := widget.NewLabelWithStyle("FitTrack", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	return container.NewCenter(container.NewGridWrap(fyne.NewSize(380, 320),
		container.NewBorder(title, st.serverLabel, nil, nil, st.authTabs)))
}

func (st *uiState) buildApp() *fyne.Container {
	st.greeting = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	logout := widget.NewButton("Logout", func() { go func() { _ = st.ctl.Logout(st.ctx) }() })
	header := container.NewBorder(nil, nil, nil, logout, st.greeting)

	st.progressBox = container.NewVBox(widget.NewLabel(dashboard.MsgLoadingProgress))
	st.activityList = container.NewVBox(widget.NewLabel(dashboard.MsgLoadingActivity))
	st.workoutList = container.NewVBox(widget.NewLabel(dashboard.MsgLoadingWorkouts))

	progressTab := container.NewVScroll(container.NewVBox(
		st.progressBox,
		widget.NewSeparator(),
		container.NewGridWithColumns(2, st.surfaces[views.RegionProgress].object(), st.surfaces[views.RegionMacros].object()),
	))
	analyticsGrid := container.NewGridWithColumns(2,
		st.surfaces[views.RegionWeeklySteps].object(),
		st.surfaces[views.RegionWeeklyCalories].object(),
		st.surfaces[views.RegionWeeklyMacros].object(),
		st.surfaces[views.RegionWorkoutFrequency].object(),
	)
	refreshAnalytics := widget.NewButton("Refresh", func() { go func() { _ = st.dash.LoadAnalytics(st.ctx) }() })
	analyticsTab := container.NewBorder(container.NewHBox(refreshAnalytics), nil, nil, nil, container.NewVScroll(analyticsGrid))

	history := container.NewAppTabs(
		container.NewTabItem("Activity", container.NewVScroll(st.activityList)),
		container.NewTabItem("Workouts", container.NewVScroll(st.workoutList)),
	)
	history.OnSelected = func(ti *container.TabItem) {
		if ti.Text == "Workouts" {
			go func() { _ = st.dash.LoadWorkoutLogs(st.ctx) }()
			return
		}
		go func() { _ = st.dash.LoadActivityLogs(st.ctx) }()
	}

	st.appTabs = container.NewAppTabs(
		container.NewTabItem("Log Activity", st.buildActivityForm()),
		container.NewTabItem("Log Workout", st.buildWorkoutForm()),
		container.NewTabItem("Goals", st.buildGoalsForm()),
		container.NewTabItem("Progress", progressTab),
		container.NewTabItem("History", history),
		container.NewTabItem("Analytics", analyticsTab),
	)
	st.appTabs.OnSelected = func(ti *container.TabItem) {
		st.app.Preferences().SetInt(prefSelectedTab, st.appTabs.SelectedIndex())
		switch ti.Text {
		case "Progress":
			go func() { _ = st.dash.LoadProgress(st.ctx) }()
		case "History":
			history.OnSelected(history.Selected())
		case "Analytics":
			go func() { _ = st.dash.LoadAnalytics(st.ctx) }()
		}
	}
	return container.NewBorder(header, nil, nil, nil, st.appTabs)
}

func (st *uiState) buildActivityForm() fyne.CanvasObject {
	w := &st.activity
	w.date = numberEntry("YYYY-MM-DD (default: today)")
	w.steps = numberEntry("0")
	w.calories = numberEntry("0")
	w.protein = numberEntry("0")
	w.carbs = numberEntry("0")
	w.fats = numberEntry("0")
	w.workoutType = widget.NewSelectEntry(workoutTypes)
	w.notes = widget.NewMultiLineEntry()
	form := widget.NewForm(
		widget.NewFormItem("Date", w.date),
		widget.NewFormItem("Steps", w.steps),
		widget.NewFormItem("Calories", w.calories),
		widget.NewFormItem("Protein (g)", w.protein),
		widget.NewFormItem("Carbs (g)", w.carbs),
		widget.NewFormItem("Fats (g)", w.fats),
		widget.NewFormItem("Workout type", w.workoutType),
		widget.NewFormItem("Notes", w.notes),
	)
	form.SubmitText = "Log Activity"
	form.OnSubmit = func() {
		f := dashboard.ActivityForm{
			Date: w.date.Text, Steps: w.steps.Text, Calories: w.calories.Text,
			Protein: w.protein.Text, Carbs: w.carbs.Text, Fats: w.fats.Text,
			WorkoutType: w.workoutType.Text, Notes: w.notes.Text,
		}
		go func() { _ = st.dash.LogActivity(st.ctx, f) }()
	}
	return container.NewVScroll(form)
}

func (st *uiState) buildWorkoutForm() fyne.CanvasObject {
	w := &st.workout
	w.date = numberEntry("YYYY-MM-DD (default: today)")
	w.workoutType = widget.NewSelectEntry(workoutTypes)
	w.exercise = widget.NewEntry()
	w.sets = numberEntry("0")
	w.reps = numberEntry("0")
	w.notes = widget.NewMultiLineEntry()
	form := widget.NewForm(
		widget.NewFormItem("Date", w.date),
		widget.NewFormItem("Workout type", w.workoutType),
		widget.NewFormItem("Exercise", w.exercise),
		widget.NewFormItem("Sets", w.sets),
		widget.NewFormItem("Reps", w.reps),
		widget.NewFormItem("Notes", w.notes),
	)
	form.SubmitText = "Log Workout"
	form.OnSubmit = func() {
		f := dashboard.WorkoutForm{
			Date: w.date.Text, WorkoutType: w.workoutType.Text, Exercise: w.exercise.Text,
			Sets: w.sets.Text, Reps: w.reps.Text, Notes: w.notes.Text,
		}
		go func() { _ = st.dash.LogWorkout(st.ctx, f) }()
	}
	return container.NewVScroll(form)
}

func (st *uiState) buildGoalsForm() fyne.CanvasObject {
	w := &st.goals
	w.date = numberEntry("YYYY-MM-DD (default: today)")
	w.steps = numberEntry("e.g. 10000")
	w.calories = numberEntry("e.g. 2200")
	w.protein = numberEntry("grams")
	w.carbs = numberEntry("grams")
	w.fats = numberEntry("grams")
	form := widget.NewForm(
		widget.NewFormItem("Date", w.date),
		widget.NewFormItem("Steps", w.steps),
		widget.NewFormItem("Calories", w.calories),
		widget.NewFormItem("Protein (g)", w.protein),
		widget.NewFormItem("Carbs (g)", w.carbs),
		widget.NewFormItem("Fats (g)", w.fats),
	)
	form.SubmitText = "Save Goals"
	form.OnSubmit = func() {
		f := dashboard.GoalsForm{
			Date: w.date.Text, Steps: w.steps.Text, Calories: w.calories.Text,
			Protein: w.protein.Text, Carbs: w.carbs.Text, Fats: w.fats.Text,
		}
		go func() { _ = st.dash.SetGoals(st.ctx, f) }()
	}
	return container.NewVScroll(form)
}

func (st *uiState) rememberLogin(user string) {
	fyne.Do(func() {
		prefs := st.app.Preferences()
		prefs.SetString(prefLastServer, st.server)
		prefs.SetString(prefLastUsername, user)
	})
}

// session.View

func (st *uiState) ShowAuth() {
	st.renderer.Gate().Reset()
	fyne.Do(func() {
		st.appRegion.Hide()
		st.authRegion.Show()
	})
}

// The gate is opened on the caller's goroutine, same as ShowAuth closes it.
func (st *uiState) ShowApp(greeting string) {
	st.renderer.Gate().MarkReady()
	fyne.Do(func() {
		st.greeting.SetText(greeting)
		st.authRegion.Hide()
		st.appRegion.Show()
		if i := st.app.Preferences().IntWithFallback(prefSelectedTab, 0); i > 0 && i < len(st.appTabs.Items) {
			st.appTabs.SelectIndex(i)
		}
	})
}

func (st *uiState) ShowLoginTab(username string) {
	fyne.Do(func() {
		st.authTabs.SelectIndex(0)
		st.loginUser.SetText(username)
		st.window.Canvas().Focus(st.loginPass)
	})
}

func (st *uiState) ResetLoginForm() {
	fyne.Do(func() { st.loginPass.SetText("") })
}

func (st *uiState) ResetSignupForm() {
	fyne.Do(func() {
		st.signupUser.SetText("")
		st.signupPass.SetText("")
		st.signupEmail.SetText("")
	})
}

// dashboard.Display

func (st *uiState) ShowProgress(rep analysis.ProgressReport) {
	fyne.Do(func() {
		objs := []fyne.CanvasObject{widget.NewLabelWithStyle("Today ("+rep.Date+")", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})}
		for _, row := range rep.Rows {
			line := container.NewBorder(nil, nil, widget.NewLabel(string(row.Metric)), nil, widget.NewLabel(row.Text()))
			objs = append(objs, line)
			if rep.HasGoals {
				bar := widget.NewProgressBar()
				bar.SetValue(uihelpers.ProgressFraction(row))
				objs = append(objs, bar)
			}
		}
		if !rep.HasGoals {
			hint := widget.NewLabel(analysis.NoGoalsHint)
			hint.Importance = widget.LowImportance
			objs = append(objs, hint)
		}
		st.progressBox.Objects = objs
		st.progressBox.Refresh()
	})
}

func (st *uiState) ShowProgressText(msg string, failed bool) {
	fyne.Do(func() { setText(st.progressBox, msg, failed) })
}

func (st *uiState) ShowActivityLogs(logs []types.ActivityLog) {
	fyne.Do(func() {
		objs := make([]fyne.CanvasObject, 0, len(logs))
		for _, l := range logs {
			objs = append(objs, entryCard(dashboard.ActivityLines(l)))
		}
		st.activityList.Objects = objs
		st.activityList.Refresh()
	})
}

func (st *uiState) ShowActivityText(msg string, failed bool) {
	fyne.Do(func() { setText(st.activityList, msg, failed) })
}

func (st *uiState) ShowWorkoutLogs(logs []types.WorkoutLog) {
	fyne.Do(func() {
		objs := make([]fyne.CanvasObject, 0, len(logs))
		for _, w := range logs {
			objs = append(objs, entryCard(dashboard.WorkoutLines(w)))
		}
		st.workoutList.Objects = objs
		st.workoutList.Refresh()
	})
}

func (st *uiState) ShowWorkoutText(msg string, failed bool) {
	fyne.Do(func() { setText(st.workoutList, msg, failed) })
}

func (st *uiState) ResetForm(f dashboard.Form) {
	fyne.Do(func() {
		var entries []*widget.Entry
		switch f {
		case dashboard.FormActivity:
			w := st.activity
			entries = []*widget.Entry{w.date, w.steps, w.calories, w.protein, w.carbs, w.fats, w.notes}
			w.workoutType.SetText("")
		case dashboard.FormWorkout:
			w := st.workout
			entries = []*widget.Entry{w.date, w.exercise, w.sets, w.reps, w.notes}
			w.workoutType.SetText("")
		case dashboard.FormGoals:
			w := st.goals
			entries = []*widget.Entry{w.date, w.steps, w.calories, w.protein, w.carbs, w.fats}
		}
		for _, e := range entries {
			e.SetText("")
		}
	})
}

func (st *uiState) Clear() {
	fyne.Do(func() {
		setText(st.progressBox, dashboard.MsgLoadingProgress, false)
		st.activityList.Objects = nil
		st.activityList.Refresh()
		st.workoutList.Objects = nil
		st.workoutList.Refresh()
	})
}

func setText(box *fyne.Container, msg string, failed bool) {
	l := widget.NewLabel(msg)
	l.Wrapping = fyne.TextWrapWord
	if failed {
		l.Importance = widget.DangerImportance
	}
	box.Objects = []fyne.CanvasObject{l}
	box.Refresh()
}

func entryCard(lines []string) fyne.CanvasObject {
	if len(lines) == 0 {
		return widget.NewSeparator()
	}
	body := widget.NewLabel(strings.Join(lines[1:], "\n"))
	body.Wrapping = fyne.TextWrapWord
	return widget.NewCard(lines[0], "", body)
}
