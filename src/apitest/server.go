// Package apitest provides an in-memory stand-in for the fitness tracking API
// on top of httptest, for use by tests across the module.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iafilius/FitTrack/src/types"
)

// SessionCookie is the cookie name the fake server issues on login.
const SessionCookie = "JSESSIONID"

// Request is what the server saw for one call.
type Request struct {
	Method    string
	Path      string
	Query     string
	HasCookie bool
	Header    http.Header
	Body      []byte
}

type forced struct {
	status int
	body   string
}

// Server is a fake API rooted at /api.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	today    string
	users    map[string]string
	emails   map[string]string
	sessions map[string]string
	logs     map[string][]types.ActivityLog
	workouts map[string][]types.WorkoutLog
	goals    map[string]map[string]*types.Goals
	nextID   int64
	requests []Request
	failures map[string]forced
}

// New starts a fake server. Close it with Close.
func New() *Server {
	s := &Server{
		today:    time.Now().Format("2006-01-02"),
		users:    map[string]string{},
		emails:   map[string]string{},
		sessions: map[string]string{},
		logs:     map[string][]types.ActivityLog{},
		workouts: map[string][]types.WorkoutLog{},
		goals:    map[string]map[string]*types.Goals{},
		failures: map[string]forced{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// SetToday fixes the server's notion of the current date.
func (s *Server) SetToday(date string) {
	s.mu.Lock()
	s.today = date
	s.mu.Unlock()
}

// AddUser registers an account directly.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	s.users[username] = password
	s.mu.Unlock()
}

// AddActivity stores an activity entry for username.
func (s *Server) AddActivity(username string, l types.ActivityLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l.ID = s.nextID
	if l.Date == "" {
		l.Date = s.today
	}
	s.logs[username] = append(s.logs[username], l)
}

// AddWorkout stores a workout entry for username.
func (s *Server) AddWorkout(username string, w types.WorkoutLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	w.ID = s.nextID
	if w.Date == "" {
		w.Date = s.today
	}
	s.workouts[username] = append(s.workouts[username], w)
}

// Fail makes every request to path (below /api) answer status with body until
// Clear is called. An empty body sends no content.
func (s *Server) Fail(path string, status int, body string) {
	s.mu.Lock()
	s.failures[path] = forced{status: status, body: body}
	s.mu.Unlock()
}

// Clear removes all forced failures.
func (s *Server) Clear() {
	s.mu.Lock()
	s.failures = map[string]forced{}
	s.mu.Unlock()
}

// ExpireSessions forgets every session, so the next call answers 401.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	s.sessions = map[string]string{}
	s.mu.Unlock()
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests were made to path.
func (s *Server) RequestCount(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		dec := json.NewDecoder(r.Body)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			body = raw
		}
	}
	path := strings.TrimPrefix(r.URL.Path, "/api")
	_, cookieErr := r.Cookie(SessionCookie)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:    r.Method,
		Path:      path,
		Query:     r.URL.RawQuery,
		HasCookie: cookieErr == nil,
		Header:    r.Header.Clone(),
		Body:      body,
	})
	f, failing := s.failures[path]
	s.mu.Unlock()

	if failing {
		if f.body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(f.status)
		if f.body != "" {
			_, _ = w.Write([]byte(f.body))
		}
		return
	}

	switch path {
	case "/health":
		jsonOK(w, map[string]string{"status": "ok"})
		return
	case "/login":
		s.handleLogin(w, body)
		return
	case "/signup":
		s.handleSignup(w, body)
		return
	}

	user, ok := s.userFor(r)
	if !ok {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	switch {
	case path == "/logout" && r.Method == http.MethodPost:
		s.handleLogout(w, r)
	case path == "/progress" && r.Method == http.MethodGet:
		s.handleProgress(w, user, r.URL.Query().Get("date"))
	case path == "/log" && r.Method == http.MethodPost:
		s.handleAddLog(w, user, body)
	case path == "/logs" && r.Method == http.MethodGet:
		s.handleLogs(w, user)
	case path == "/workout-log" && r.Method == http.MethodPost:
		s.handleAddWorkout(w, user, body)
	case path == "/workout-logs" && r.Method == http.MethodGet:
		s.handleWorkouts(w, user)
	case path == "/goals" && r.Method == http.MethodPost:
		s.handleGoals(w, user, body)
	default:
		jsonError(w, "Not found", http.StatusNotFound)
	}
}

func (s *Server) userFor(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.sessions[c.Value]
	return u, ok
}

func (s *Server) handleLogin(w http.ResponseWriter, body []byte) {
	var creds types.Credentials
	if err := json.Unmarshal(body, &creds); err != nil || strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		jsonError(w, "username and password required", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(creds.Username)
	s.mu.Lock()
	pw, ok := s.users[username]
	if !ok || pw != creds.Password {
		s.mu.Unlock()
		jsonError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	token := uuid.NewString()
	s.sessions[token] = username
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	jsonOK(w, map[string]string{"message": "Login successful", "user": username})
}

func (s *Server) handleSignup(w http.ResponseWriter, body []byte) {
	var req types.SignupRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Username == "" || req.Password == "" {
		jsonError(w, "username and password required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		jsonError(w, "Username already taken", http.StatusConflict)
		return
	}
	s.users[req.Username] = req.Password
	if req.Email != nil {
		s.emails[req.Username] = *req.Email
	}
	s.nextID++
	jsonOK(w, map[string]any{"message": "User created", "userId": s.nextID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	jsonOK(w, map[string]string{"message": "Logged out"})
}

func (s *Server) handleProgress(w http.ResponseWriter, user, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if date == "" {
		date = s.today
	}
	var sum types.Sums
	for _, l := range s.logs[user] {
		if l.Date != date {
			continue
		}
		sum.Steps += l.Steps
		sum.Calories += l.Calories
		sum.Protein += l.Protein
		sum.Carbohydrates += l.Carbohydrates
		sum.Fats += l.Fats
	}
	resp := map[string]any{"date": date, "sum": sum, "goals": nil}
	if g := s.goals[user][date]; g != nil {
		resp["goals"] = g
	}
	jsonOK(w, resp)
}

func (s *Server) handleAddLog(w http.ResponseWriter, user string, body []byte) {
	var req types.ActivityRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "Failed to save log: invalid body", http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	date := req.Date
	if date == "" {
		date = s.today
	}
	s.nextID++
	id := s.nextID
	s.logs[user] = append(s.logs[user], types.ActivityLog{
		ID: id, Date: date, Steps: req.Steps, Calories: req.Calories,
		Protein: req.Protein, Carbohydrates: req.Carbohydrates, Fats: req.Fats,
		WorkoutType: req.WorkoutType, Notes: req.Notes,
	})
	s.mu.Unlock()
	jsonOK(w, map[string]any{"message": "log-saved", "logId": id, "date": date})
}

func (s *Server) handleLogs(w http.ResponseWriter, user string) {
	s.mu.Lock()
	logs := append([]types.ActivityLog{}, s.logs[user]...)
	s.mu.Unlock()
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	jsonOK(w, logs)
}

func (s *Server) handleAddWorkout(w http.ResponseWriter, user string, body []byte) {
	var req types.WorkoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "Failed to save workout log: invalid body", http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	date := req.Date
	if date == "" {
		date = s.today
	}
	s.nextID++
	id := s.nextID
	s.workouts[user] = append(s.workouts[user], types.WorkoutLog{
		ID: id, Date: date, WorkoutType: req.WorkoutType, Exercise: req.Exercise,
		Sets: req.Sets, Reps: req.Reps, Notes: req.Notes,
	})
	s.mu.Unlock()
	jsonOK(w, map[string]any{"message": "Workout log saved", "workoutLogId": id, "date": date})
}

func (s *Server) handleWorkouts(w http.ResponseWriter, user string) {
	s.mu.Lock()
	logs := append([]types.WorkoutLog{}, s.workouts[user]...)
	s.mu.Unlock()
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	jsonOK(w, logs)
}

func (s *Server) handleGoals(w http.ResponseWriter, user string, body []byte) {
	var req types.GoalsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "Failed to save goals: invalid body", http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	date := req.Date
	if date == "" {
		date = s.today
	}
	if s.goals[user] == nil {
		s.goals[user] = map[string]*types.Goals{}
	}
	s.goals[user][date] = &types.Goals{
		Date: date, Steps: req.StepsGoal, Calories: req.CaloriesGoal,
		Protein: req.ProteinGoal, Carbs: req.CarbsGoal, Fats: req.FatsGoal,
	}
	s.mu.Unlock()
	jsonOK(w, map[string]any{"message": "goals-saved", "date": date})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
