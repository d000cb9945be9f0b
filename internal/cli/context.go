package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/backup"
	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/config"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/keyring"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/sources"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/storage/postgres"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
	"github.com/julianstephens/studylit/internal/utils"
)

// KeyringTarget selects a PostgreSQL store whose connection string lives in the OS keyring
const KeyringTarget = "keyring"

type Context struct {
	Provider storage.Provider
	// Store is nil until the provider has been loaded
	Store  *calendar.Store
	Config *config.Config
	// ConfigFile is the YAML file Config was read from
	ConfigFile string
	// Stdout defaults to os.Stdout
	Stdout io.Writer
}

// Out returns the writer commands print to
func (c *Context) Out() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// NewProvider picks a storage backend for target: a PostgreSQL URL, "keyring",
// a .json snapshot file, or otherwise a SQLite database path.
func NewProvider(target string) (storage.Provider, error) {
	switch {
	case target == KeyringTarget:
		connStr, err := keyring.ConnectionEntry.Get()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring; run '%s keyring set' first", constants.AppName)
			}
			return nil, err
		}
		// credentials are allowed here since they never touch the config file
		if err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(connStr), nil
	case postgres.IsConnString(target) || strings.Contains(target, "host="):
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	}

	path, err := utils.ExpandHome(target)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// LoadStore loads the provider and the event store on top of it
func (c *Context) LoadStore() error {
	if err := c.Provider.Load(); err != nil {
		return err
	}
	store := calendar.NewStore(c.Provider)
	if err := store.Load(); err != nil {
		return err
	}
	c.Store = store
	return nil
}

// ReloadStore rereads the persisted snapshot into the loaded store, picking up
// writes made by other processes since the last load.
func (c *Context) ReloadStore() error {
	if c.Store == nil {
		return c.LoadStore()
	}
	if err := c.Provider.Load(); err != nil {
		return err
	}
	return c.Store.Load()
}

// Location returns the zone used for timestamps without an offset
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	loc, err := c.Config.Location()
	if err != nil {
		logger.Warn("Invalid timezone in config, using local time", "error", err)
		return time.Local
	}
	return loc
}

// NewSyncer wires the reconcilers for whichever collaborator files are set.
// Flags take precedence over the config file.
func (c *Context) NewSyncer(tasksFile, sessionsFile string) (*calendar.Syncer, error) {
	if c.Store == nil {
		return nil, calendar.ErrNotLoaded
	}
	if tasksFile == "" && c.Config != nil {
		tasksFile = c.Config.TasksFile
	}
	if sessionsFile == "" && c.Config != nil {
		sessionsFile = c.Config.SessionsFile
	}
	if tasksFile == "" && sessionsFile == "" {
		return nil, errors.New("no task or session file configured; pass --tasks/--sessions or set tasks_file/sessions_file")
	}

	loc := c.Location()
	syncer := &calendar.Syncer{}

	var tasks calendar.TaskSource
	if tasksFile != "" {
		src, err := sources.NewTaskFile(tasksFile)
		if err != nil {
			return nil, err
		}
		tasks = src
		rec := calendar.NewTaskReconciler(c.Store, src)
		rec.Location = loc
		syncer.Tasks = rec
	}

	if sessionsFile != "" {
		src, err := sources.NewSessionFile(sessionsFile)
		if err != nil {
			return nil, err
		}
		opts := calendar.SessionOptions{Location: loc}
		if c.Config != nil {
			opts.ReconcileExisting = c.Config.SessionSync.ReconcileExisting
		}
		syncer.Sessions = calendar.NewSessionReconciler(c.Store, src, tasks, opts)
	}
	return syncer, nil
}

// PerformAutomaticBackup backs up local stores before destructive commands.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if c.Provider == nil {
		return
	}
	path := c.Provider.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
