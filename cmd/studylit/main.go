package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/cli/agenda"
	"github.com/julianstephens/studylit/internal/cli/backups"
	"github.com/julianstephens/studylit/internal/cli/events"
	"github.com/julianstephens/studylit/internal/cli/exports"
	"github.com/julianstephens/studylit/internal/cli/settings"
	"github.com/julianstephens/studylit/internal/cli/syncs"
	"github.com/julianstephens/studylit/internal/cli/system"
	"github.com/julianstephens/studylit/internal/config"
	"github.com/julianstephens/studylit/internal/constants"
	apperrors "github.com/julianstephens/studylit/internal/errors"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/utils"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `help:"YAML config file." type:"string" default:"${config_file}" env:"STUDYLIT_CONFIG"`
	Store      string `help:"Store location: a .db file, a .json file, a PostgreSQL connection string or 'keyring'. Overrides the config file."`
	Debug      bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize storage and write the config file."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored events for conflicts."`
	Show     agenda.ShowCmd     `cmd:"" help:"Show the calendar for a day, week or month." default:"withargs"`
	Layout   agenda.LayoutCmd   `cmd:"" help:"Print time-grid placement for a day's events."`
	Browse   agenda.BrowseCmd   `cmd:"" help:"Browse and add events in an interactive calendar."`
	Sync     syncs.SyncCmd      `cmd:"" help:"Reconcile the calendar with the task list and pomodoro log once."`
	Watch    syncs.WatchCmd     `cmd:"" help:"Keep the calendar in sync on a cron schedule."`
	Export   exports.ExportCmd  `cmd:"" help:"Export events as an iCalendar file."`
	Import   exports.ImportCmd  `cmd:"" help:"Import events from an iCalendar file."`
	Event    struct {
		Add    events.EventAddCmd    `cmd:"" help:"Add an event."`
		Update events.EventUpdateCmd `cmd:"" help:"Update an event."`
		Delete events.EventDeleteCmd `cmd:"" help:"Delete an event."`
		List   events.EventListCmd   `cmd:"" help:"List events."`
	} `cmd:"" help:"Manage calendar events."`
	Prefs struct {
		Show settings.PrefsShowCmd `cmd:"" help:"Show preferences." default:"1"`
		Set  settings.PrefsSetCmd  `cmd:"" help:"Change preferences."`
	} `cmd:"" help:"Manage display preferences."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// commands that manage the store themselves
var noLoad = map[string]bool{"init": true, "doctor": true, "keyring": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Study calendar that reconciles tasks and pomodoro sessions into one schedule"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version, "config_file": constants.DefaultConfigFile},
	)

	configFile, err := utils.ExpandHome(CLI.ConfigFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		LogDir:    cfg.LogDir,
		ConfigDir: filepath.Dir(configFile),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{Config: cfg, ConfigFile: configFile}
	command := strings.Fields(ctx.Command())[0]

	if command != "keyring" {
		provider, err := cli.NewProvider(cfg.Store)
		if err != nil {
			apperrors.Fatal(err)
		}
		appCtx.Provider = provider
		defer provider.Close()

		if !noLoad[command] {
			if err := appCtx.LoadStore(); err != nil {
				if errors.Is(err, storage.ErrNotInitialized) {
					err = apperrors.WithHint(err, fmt.Sprintf("run '%s init' first", constants.AppName))
				}
				provider.Close()
				apperrors.Fatal(err)
			}
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", cfg.Store)
	if err := ctx.Run(appCtx); err != nil {
		if appCtx.Provider != nil {
			appCtx.Provider.Close()
		}
		apperrors.Fatal(err)
	}
}
