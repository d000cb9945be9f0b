package models

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

func TestDefaultPreferencesValid(t *testing.T) {
	if err := DefaultPreferences().Validate(); err != nil {
		t.Fatalf("default preferences invalid: %v", err)
	}
}

func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *UserPreferences)
	}{
		{"bad view", func(p *UserPreferences) { p.DefaultView = "year" }},
		{"tuesday start", func(p *UserPreferences) { p.FirstDayOfWeek = time.Tuesday }},
		{"inverted hours", func(p *UserPreferences) { p.WorkingHours = WorkingHours{Start: 18, End: 9} }},
		{"hours past midnight", func(p *UserPreferences) { p.WorkingHours = WorkingHours{Start: 8, End: 25} }},
		{"empty color", func(p *UserPreferences) { p.ColorMap[constants.EventTypeExam] = " " }},
		{"unknown type color", func(p *UserPreferences) { p.ColorMap["meeting"] = "#fff" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidPreferences) {
				t.Errorf("Validate() = %v, want ErrInvalidPreferences", err)
			}
		})
	}
}

func TestPreferencesNormalizeAndColorFor(t *testing.T) {
	p := UserPreferences{ColorMap: map[constants.EventType]string{constants.EventTypeTask: "#000000"}}
	p.Normalize()

	if p.DefaultView != constants.ViewWeek {
		t.Errorf("DefaultView = %q", p.DefaultView)
	}
	if p.WorkingHours.Start != constants.DefaultGridStart || p.WorkingHours.End != constants.DefaultGridEnd {
		t.Errorf("WorkingHours = %+v", p.WorkingHours)
	}
	if p.ColorFor(constants.EventTypeTask) != "#000000" {
		t.Errorf("custom color lost: %q", p.ColorFor(constants.EventTypeTask))
	}
	if p.ColorFor(constants.EventTypeExam) != constants.DefaultColors[constants.EventTypeExam] {
		t.Errorf("missing color not defaulted: %q", p.ColorFor(constants.EventTypeExam))
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"Sunday": time.Sunday, "mon": time.Monday, " SAT ": time.Saturday} {
		got, err := ParseWeekday(in)
		if err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWeekday("friday"); err == nil {
		t.Error("friday should be rejected")
	}
}
