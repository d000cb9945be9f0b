package exports

import (
	"fmt"
	"os"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/ics"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
)

type ImportCmd struct {
	File         string `arg:"" help:"iCalendar file to import." type:"existingfile"`
	SkipExisting bool   `help:"Skip events whose UID matches a stored event ID, or whose title and start match a stored event."`
	DryRun       bool   `help:"Parse and report without saving."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	imported, err := ics.Import(f)
	if err != nil {
		return err
	}

	existing := ctx.Store.List()
	var added, skipped int
	if !c.DryRun && len(imported) > 0 {
		ctx.PerformAutomaticBackup()
	}
	for _, imp := range imported {
		if c.SkipExisting && alreadyStored(imp, existing) {
			skipped++
			continue
		}
		if c.DryRun {
			added++
			continue
		}
		if _, err := ctx.Store.AddEvent(imp.Event); err != nil {
			return fmt.Errorf("failed to add event %q: %w", imp.Event.Title, err)
		}
		added++
	}

	logger.Info("Calendar imported", "file", c.File, "added", added, "skipped", skipped, "dryRun", c.DryRun)
	verb := "Imported"
	if c.DryRun {
		verb = "Would import"
	}
	fmt.Fprintf(ctx.Out(), "%s %d events from %s", verb, added, c.File)
	if skipped > 0 {
		fmt.Fprintf(ctx.Out(), " (%d already present)", skipped)
	}
	fmt.Fprintln(ctx.Out())
	return nil
}

func alreadyStored(imp ics.Imported, existing []models.CalendarEvent) bool {
	for _, ev := range existing {
		if imp.UID != "" && ev.ID == imp.UID {
			return true
		}
		if ev.Title == imp.Event.Title && ev.Start.Equal(imp.Event.Start) {
			return true
		}
	}
	return false
}
