package dashboard

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iafilius/FitTrack/src/types"
)

// Validation failures shown to the user as-is.
var (
	ErrMissingWorkoutFields = errors.New("Please fill in all required fields")
	ErrNoGoals              = errors.New("Please set at least one goal")
	ErrInvalidDate          = errors.New("Date must be in YYYY-MM-DD format")
)

// Form names the resettable input forms of the authenticated region.
type Form int

const (
	FormActivity Form = iota
	FormWorkout
	FormGoals
)

// Forms lists every app form.
var Forms = []Form{FormActivity, FormWorkout, FormGoals}

func (f Form) String() string {
	switch f {
	case FormActivity:
		return "activity"
	case FormWorkout:
		return "workout"
	case FormGoals:
		return "goals"
	}
	return "unknown"
}

// ActivityForm holds the raw text of the activity inputs.
type ActivityForm struct {
	Date        string
	Steps       string
	Calories    string
	Protein     string
	Carbs       string
	Fats        string
	WorkoutType string
	Notes       string
}

// WorkoutForm holds the raw text of the workout inputs.
type WorkoutForm struct {
	Date        string
	WorkoutType string
	Exercise    string
	Sets        string
	Reps        string
	Notes       string
}

// GoalsForm holds the raw text of the goal inputs. Blank or zero means unset.
type GoalsForm struct {
	Date     string
	Steps    string
	Calories string
	Protein  string
	Carbs    string
	Fats     string
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ParseInt reads the leading integer of s ("12abc" -> 12, "7.9" -> 7).
// ok is false when s has no leading digits.
func ParseInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat reads the leading decimal number of s ("50.5g" -> 50.5).
func ParseFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intOr0(s string) int {
	v, _ := ParseInt(s)
	return v
}

func floatOr0(s string) float64 {
	v, _ := ParseFloat(s)
	return v
}

// goalInt is nil for blank, unparsable or zero input.
func goalInt(s string) *int {
	v, ok := ParseInt(s)
	if !ok || v == 0 {
		return nil
	}
	return &v
}

func goalFloat(s string) *float64 {
	v, ok := ParseFloat(s)
	if !ok || v == 0 {
		return nil
	}
	return &v
}

// checkDate accepts an empty date (server default) or YYYY-MM-DD.
func checkDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

// Request converts the form into the POST /log body. Numbers that do not
// parse count as zero.
func (f ActivityForm) Request() (types.ActivityRequest, error) {
	date, err := checkDate(f.Date)
	if err != nil {
		return types.ActivityRequest{}, err
	}
	return types.ActivityRequest{
		Date:          date,
		Steps:         intOr0(f.Steps),
		Calories:      intOr0(f.Calories),
		Protein:       floatOr0(f.Protein),
		Carbohydrates: floatOr0(f.Carbs),
		Fats:          floatOr0(f.Fats),
		WorkoutType:   f.WorkoutType,
		Notes:         f.Notes,
	}, nil
}

// Request converts the form into the POST /workout-log body. Type, exercise,
// sets and reps are required; zero sets or reps count as missing.
func (f WorkoutForm) Request() (types.WorkoutRequest, error) {
	date, err := checkDate(f.Date)
	if err != nil {
		return types.WorkoutRequest{}, err
	}
	sets, _ := ParseInt(f.Sets)
	reps, _ := ParseInt(f.Reps)
	if f.WorkoutType == "" || f.Exercise == "" || sets == 0 || reps == 0 {
		return types.WorkoutRequest{}, ErrMissingWorkoutFields
	}
	return types.WorkoutRequest{
		Date:        date,
		WorkoutType: f.WorkoutType,
		Exercise:    f.Exercise,
		Sets:        sets,
		Reps:        reps,
		Notes:       f.Notes,
	}, nil
}

// Request converts the form into the POST /goals body. At least one goal
// must be positive.
func (f GoalsForm) Request() (types.GoalsRequest, error) {
	date, err := checkDate(f.Date)
	if err != nil {
		return types.GoalsRequest{}, err
	}
	req := types.GoalsRequest{
		Date:         date,
		StepsGoal:    goalInt(f.Steps),
		CaloriesGoal: goalInt(f.Calories),
		ProteinGoal:  goalFloat(f.Protein),
		CarbsGoal:    goalFloat(f.Carbs),
		FatsGoal:     goalFloat(f.Fats),
	}
	if !anyPositive(req) {
		return types.GoalsRequest{}, ErrNoGoals
	}
	return req, nil
}

func anyPositive(r types.GoalsRequest) bool {
	for _, p := range []*int{r.StepsGoal, r.CaloriesGoal} {
		if p != nil && *p > 0 {
			return true
		}
	}
	for _, p := range []*float64{r.ProteinGoal, r.CarbsGoal, r.FatsGoal} {
		if p != nil && *p > 0 {
			return true
		}
	}
	return false
}
