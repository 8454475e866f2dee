package dashboard

import (
	"errors"
	"testing"
)

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"  42  ", 42, true},
		{"12abc", 12, true},
		{"7.9", 7, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseInt(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseInt(%q): expected %d,%v got %d,%v", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"50.5", 50.5, true},
		{"50.5g", 50.5, true},
		{".5", 0.5, true},
		{"1e2", 100, true},
		{"3.", 3, true},
		{"", 0, false},
		{"g", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseFloat(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseFloat(%q): expected %v,%v got %v,%v", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestGoalsFormNullsZeroAndBlank(t *testing.T) {
	req, err := GoalsForm{Steps: "10000", Calories: "0", Protein: "", Carbs: "x", Fats: "60.5"}.Request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.StepsGoal == nil || *req.StepsGoal != 10000 {
		t.Fatalf("expected steps goal 10000")
	}
	if req.CaloriesGoal != nil || req.ProteinGoal != nil || req.CarbsGoal != nil {
		t.Fatalf("expected zero, blank and unparsable goals to be null: %+v", req)
	}
	if req.FatsGoal == nil || *req.FatsGoal != 60.5 {
		t.Fatalf("expected fats goal 60.5")
	}
}

func TestFormsRejectBadDate(t *testing.T) {
	if _, err := (ActivityForm{Date: "07/03/2025"}).Request(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	req, err := ActivityForm{Date: " 2025-03-07 "}.Request()
	if err != nil || req.Date != "2025-03-07" {
		t.Fatalf("expected trimmed date, got %q (%v)", req.Date, err)
	}
}
