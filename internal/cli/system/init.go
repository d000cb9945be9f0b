package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/config"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing local store and overwrite the config file before initializing."`
	Source string `help:"Store path, connection string or 'keyring' to copy events and preferences from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	out := ctx.Out()

	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Initialized %s storage at: %s\n", constants.AppName, ctx.Provider.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(out, "Copying data from: %s\n", c.Source)
		n, err := c.copySnapshot(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintf(out, "Copied %d events and preferences.\n", n)
	}

	if ctx.ConfigFile != "" && ctx.Config != nil {
		_, err := os.Stat(ctx.ConfigFile)
		switch {
		case err == nil && !c.Force:
			fmt.Fprintf(out, "Keeping existing config file: %s\n", ctx.ConfigFile)
		case err == nil || os.IsNotExist(err):
			if err := config.Save(ctx.ConfigFile, ctx.Config); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote config file: %s\n", ctx.ConfigFile)
		default:
			return fmt.Errorf("failed to access config file: %w", err)
		}
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if _, ok := ctx.Provider.(*postgres.Store); ok {
		return errors.New("--force is not supported for PostgreSQL stores; drop the schema manually")
	}

	path := ctx.Provider.GetConfigPath()
	if c.Source != "" {
		absPath, err1 := filepath.Abs(path)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absPath == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Provider.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		fmt.Fprintf(ctx.Out(), "Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// copySnapshot replaces the new store's snapshot with the source's
func (c *InitCmd) copySnapshot(ctx *cli.Context) (int, error) {
	source, err := cli.NewProvider(c.Source)
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer source.Close()

	snap, err := source.GetSnapshot()
	if err != nil {
		return 0, fmt.Errorf("failed to read source store: %w", err)
	}
	if err := ctx.Provider.SaveSnapshot(snap); err != nil {
		return 0, fmt.Errorf("failed to write destination store: %w", err)
	}
	return len(snap.Events), nil
}
