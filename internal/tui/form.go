package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// newEventForm starts on the selected day. Task and pomodoro events come from sync, so only
// manual types are offered.
func newEventForm(selected time.Time) *EventFormModel {
	return &EventFormModel{
		Date:     selected.Format(constants.DateFormat),
		Start:    "09:00",
		Duration: "60",
		Type:     constants.EventTypeStudySession,
	}
}

func NewEventForm(fm *EventFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					_, err := time.Parse(constants.DateFormat, s)
					return err
				}),
			huh.NewConfirm().
				Title("All day").
				Value(&fm.AllDay),
			huh.NewInput().
				Title("Start (HH:MM)").
				Description("Ignored for all-day events").
				Value(&fm.Start).
				Validate(validateClock),
			huh.NewInput().
				Title("Duration (min)").
				Value(&fm.Duration).
				Validate(validateMinutes),
			huh.NewSelect[constants.EventType]().
				Title("Type").
				Options(
					huh.NewOption("Study session", constants.EventTypeStudySession),
					huh.NewOption("Exam", constants.EventTypeExam),
				).
				Value(&fm.Type),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateClock(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("time must be HH:MM")
	}
	return nil
}

func validateMinutes(s string) error {
	i, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if i <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes")
	}
	return nil
}

// buildEvent turns submitted form values into an event in loc
func buildEvent(fm EventFormModel, loc *time.Location) (models.CalendarEvent, error) {
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		return models.CalendarEvent{}, errors.New("title cannot be empty")
	}
	day, err := utils.ParseDateInLocation(fm.Date, loc)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("invalid date %q", fm.Date)
	}

	ev := models.CalendarEvent{Title: title, Type: fm.Type, AllDay: fm.AllDay}
	if fm.AllDay {
		ev.Start = utils.StartOfDay(day)
		ev.End = utils.EndOfDay(day)
		return ev, nil
	}

	if err := validateClock(fm.Start); err != nil {
		return models.CalendarEvent{}, err
	}
	if err := validateMinutes(fm.Duration); err != nil {
		return models.CalendarEvent{}, err
	}
	clock, _ := time.Parse("15:04", fm.Start)
	minutes, _ := strconv.Atoi(fm.Duration)

	ev.Start = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	ev.End = ev.Start.Add(time.Duration(minutes) * time.Minute)
	return ev, nil
}
