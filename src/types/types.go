// Package types holds the JSON records exchanged with the fitness tracking API.
package types

// Sums are the aggregated activity totals for one day as computed by the server.
type Sums struct {
	Steps         int     `json:"steps"`
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
}

// Goals are the user-defined daily targets. Every field is optional.
type Goals struct {
	UserID   int64    `json:"userId,omitempty"`
	Date     string   `json:"date,omitempty"`
	Steps    *int     `json:"steps"`
	Calories *int     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

// Progress is the snapshot returned by GET /progress.
// The left* fields are the server's own remaining computation; the client
// derives its own values from Sum and Goals.
type Progress struct {
	Date  string `json:"date"`
	Sum   Sums   `json:"sum"`
	Goals *Goals `json:"goals"`

	LeftSteps    *int     `json:"leftSteps,omitempty"`
	LeftCalories *int     `json:"leftCalories,omitempty"`
	LeftProtein  *float64 `json:"leftProtein,omitempty"`
	LeftCarbs    *float64 `json:"leftCarbs,omitempty"`
	LeftFats     *float64 `json:"leftFats,omitempty"`
}

// ActivityLog is one stored daily activity entry (GET /logs).
type ActivityLog struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	Steps         int     `json:"steps"`
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
	WorkoutType   string  `json:"workout_type,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// WorkoutLog is one stored workout entry (GET /workout-logs).
type WorkoutLog struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	WorkoutType string `json:"workout_type"`
	Exercise    string `json:"exercise"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	Notes       string `json:"notes,omitempty"`
}

// Credentials is the POST /login body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the POST /signup body. A nil Email is sent as JSON null.
type SignupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

// ActivityRequest is the POST /log body.
type ActivityRequest struct {
	Date          string  `json:"date,omitempty"`
	Steps         int     `json:"steps"`
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
	WorkoutType   string  `json:"workout_type"`
	Notes         string  `json:"notes"`
}

// WorkoutRequest is the POST /workout-log body.
type WorkoutRequest struct {
	Date        string `json:"date,omitempty"`
	WorkoutType string `json:"workout_type"`
	Exercise    string `json:"exercise"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	Notes       string `json:"notes"`
}

// GoalsRequest is the POST /goals body. Nil goals are sent as JSON null.
type GoalsRequest struct {
	Date         string   `json:"date,omitempty"`
	StepsGoal    *int     `json:"steps_goal"`
	CaloriesGoal *int     `json:"calories_goal"`
	ProteinGoal  *float64 `json:"protein_goal"`
	CarbsGoal    *float64 `json:"carbs_goal"`
	FatsGoal     *float64 `json:"fats_goal"`
}

// MessageResponse covers the acknowledgement bodies of the write endpoints.
type MessageResponse struct {
	Message      string `json:"message,omitempty"`
	User         string `json:"user,omitempty"`
	UserID       int64  `json:"userId,omitempty"`
	LogID        int64  `json:"logId,omitempty"`
	WorkoutLogID int64  `json:"workoutLogId,omitempty"`
	Date         string `json:"date,omitempty"`
}

// Health is the GET /health body.
type Health struct {
	Status string `json:"status"`
}
