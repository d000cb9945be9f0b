package settings

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

type PrefsShowCmd struct {
	JSON bool `help:"Print preferences as JSON."`
}

func (c *PrefsShowCmd) Run(ctx *cli.Context) error {
	prefs := ctx.Store.Preferences()
	out := ctx.Out()

	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(prefs)
	}

	fmt.Fprintln(out, "Preferences:")
	fmt.Fprintf(out, "  Default view:      %s\n", prefs.DefaultView)
	fmt.Fprintf(out, "  First day of week: %s\n", prefs.FirstDayOfWeek)
	fmt.Fprintf(out, "  Working hours:     %02d:00-%02d:00\n", prefs.WorkingHours.Start, prefs.WorkingHours.End)
	fmt.Fprintf(out, "  Reminders:         %s\n", onOff(prefs.RemindersEnabled))
	fmt.Fprintln(out, "  Colors:")
	types := make([]string, 0, len(prefs.ColorMap))
	for t := range prefs.ColorMap {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(out, "    %-14s %s\n", t, prefs.ColorMap[constants.EventType(t)])
	}
	return nil
}

type PrefsSetCmd struct {
	DefaultView *string           `help:"Default calendar view (day, week, month)."`
	FirstDay    *string           `help:"First day of the week (sunday, monday, saturday)." name:"first-day"`
	WorkStart   *int              `help:"Hour the grid starts at (0-23)."`
	WorkEnd     *int              `help:"Hour the grid ends at (1-24)."`
	Reminders   *bool             `help:"Enable or disable reminders." negatable:""`
	Color       map[string]string `help:"Color for an event type, e.g. --color exam=#ff0000." mapsep:","`
	ResetColors bool              `help:"Restore the default color palette."`
}

func (c *PrefsSetCmd) Run(ctx *cli.Context) error {
	prefs, changed, err := c.apply(ctx.Store.Preferences())
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(ctx.Out(), "No changes specified.")
		return nil
	}
	if err := ctx.Store.SetPreferences(prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	fmt.Fprintln(ctx.Out(), "Preferences updated.")
	return nil
}

// apply merges the flags into prefs. Validation of the merged result happens in SetPreferences.
func (c *PrefsSetCmd) apply(prefs models.UserPreferences) (models.UserPreferences, bool, error) {
	changed := false

	if c.DefaultView != nil {
		prefs.DefaultView = constants.ViewMode(strings.ToLower(*c.DefaultView))
		changed = true
	}
	if c.FirstDay != nil {
		day, err := models.ParseWeekday(*c.FirstDay)
		if err != nil {
			return prefs, false, err
		}
		prefs.FirstDayOfWeek = day
		changed = true
	}
	if c.WorkStart != nil {
		prefs.WorkingHours.Start = *c.WorkStart
		changed = true
	}
	if c.WorkEnd != nil {
		prefs.WorkingHours.End = *c.WorkEnd
		changed = true
	}
	if c.Reminders != nil {
		prefs.RemindersEnabled = *c.Reminders
		changed = true
	}
	if c.ResetColors {
		prefs.ColorMap = models.DefaultPreferences().ColorMap
		changed = true
	}
	for name, color := range c.Color {
		typ, err := cli.ParseEventType(name)
		if err != nil {
			return prefs, false, err
		}
		prefs.ColorMap[typ] = strings.TrimSpace(color)
		changed = true
	}
	return prefs, changed, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
