package system

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/studylit/internal/backup"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/migration"
	"github.com/julianstephens/studylit/internal/validation"
)

// migrationReporter is implemented by the database-backed providers
type migrationReporter interface {
	MigrationStatus() (migration.Status, error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	return cmd.run(ctx, time.Now())
}

func (cmd *DoctorCmd) run(ctx *cli.Context, now time.Time) error {
	out := ctx.Out()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	fail := func(name string, err error) {
		fmt.Fprintf(out, "❌ %s: FAIL\n", name)
		fmt.Fprintf(out, "   Error: %v\n", err)
		hasError = true
	}

	// Check 1: store reachable
	storeReachable := false
	if err := checkStoreReachable(ctx); err != nil {
		fail("Store reachable", err)
	} else {
		fmt.Fprintln(out, "✓ Store reachable: OK")
		storeReachable = true
	}

	// Check 2: migrations
	if storeReachable {
		if err := checkMigrations(ctx); err != nil {
			fail("Migrations complete", err)
		} else {
			fmt.Fprintln(out, "✓ Migrations complete: OK")
		}
	} else {
		fmt.Fprintln(out, "⊘ Migrations complete: SKIPPED (store not reachable)")
	}

	// Check 3: backups (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Fprintln(out, "⚠ Backups present: WARNING")
		fmt.Fprintf(out, "   %v\n", err)
	} else {
		fmt.Fprintln(out, "✓ Backups present: OK")
	}

	// Check 4: event data
	if storeReachable {
		if err := checkValidation(ctx, out); err != nil {
			fail("Data validation", err)
		} else {
			fmt.Fprintln(out, "✓ Data validation: OK")
		}
	} else {
		fmt.Fprintln(out, "⊘ Data validation: SKIPPED (store not reachable)")
	}

	// Check 5: config
	if ctx.Config != nil {
		if err := ctx.Config.Validate(); err != nil {
			fail("Configuration", err)
		} else {
			fmt.Fprintln(out, "✓ Configuration: OK")
		}
	}

	// Check 6: clock/timezone
	if err := checkClockTimezone(ctx, now, out); err != nil {
		fail("Clock/timezone", err)
	} else {
		fmt.Fprintln(out, "✓ Clock/timezone: OK")
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if ctx.Provider == nil {
		return errors.New("no store configured")
	}
	if ctx.Store != nil {
		return nil
	}
	if err := ctx.LoadStore(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	return nil
}

func checkMigrations(ctx *cli.Context) error {
	mr, ok := ctx.Provider.(migrationReporter)
	if !ok {
		// snapshot files have no schema
		return nil
	}
	status, err := mr.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	if status.Pending() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", status.Current, status.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Provider == nil {
		return errors.New("no store configured")
	}
	path := ctx.Provider.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backups are only kept for local stores")
	}

	mgr := backup.NewManager(path)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkValidation(ctx *cli.Context, out io.Writer) error {
	result := validation.Validate(ctx.Store.List(), nil)
	if result.HasConflicts() {
		fmt.Fprint(out, result.FormatReport())
		return fmt.Errorf("%d conflicts found; run '%s validate' for details", len(result.Conflicts), constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context, now time.Time, out io.Writer) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return err
		}
	}
	loc := ctx.Location()
	if loc == time.UTC {
		fmt.Fprintln(out, "   Note: timezone is UTC")
	}
	return nil
}
