package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/studylit/internal/constants"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"STUDYLIT_STORE", "STUDYLIT_TASKS_FILE", "STUDYLIT_SESSIONS_FILE", "STUDYLIT_SYNC_SCHEDULE", "STUDYLIT_TIMEZONE", "STUDYLIT_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != constants.DefaultConfigPath {
		t.Errorf("store = %q", cfg.Store)
	}
	if cfg.HourHeight != constants.DefaultHourHeight {
		t.Errorf("hour height = %v", cfg.HourHeight)
	}
	if cfg.SyncSchedule != constants.DefaultSyncPattern {
		t.Errorf("schedule = %q", cfg.SyncSchedule)
	}
	if cfg.SessionSync.ReconcileExisting {
		t.Errorf("reconcile_existing should default to false")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Load should not create the file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Store = "/data/cal.json"
	cfg.TasksFile = "/data/tasks.yaml"
	cfg.HourHeight = 48
	cfg.SessionSync.ReconcileExisting = true
	cfg.Timezone = "UTC"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Store != "/data/cal.json" || got.TasksFile != "/data/tasks.yaml" {
		t.Errorf("paths not preserved: %+v", got)
	}
	if got.HourHeight != 48 || !got.SessionSync.ReconcileExisting {
		t.Errorf("values not preserved: %+v", got)
	}
}

func TestLoadPartialFileNormalizes(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "store: /tmp/x.db\nhour_height: 0\nsession_sync:\n  reconcile_existing: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != "/tmp/x.db" {
		t.Errorf("store = %q", cfg.Store)
	}
	if cfg.HourHeight != constants.DefaultHourHeight {
		t.Errorf("zero hour height should be normalized, got %v", cfg.HourHeight)
	}
	if cfg.SyncSchedule != constants.DefaultSyncPattern {
		t.Errorf("schedule = %q", cfg.SyncSchedule)
	}
	if !cfg.SessionSync.ReconcileExisting {
		t.Errorf("reconcile_existing lost")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYLIT_STORE", "postgres://localhost/cal")
	t.Setenv("STUDYLIT_TASKS_FILE", "/env/tasks.json")
	t.Setenv("STUDYLIT_SYNC_SCHEDULE", "@hourly")
	t.Setenv("STUDYLIT_DEBUG", "true")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: /file/cal.db\nsessions_file: /file/sessions.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != "postgres://localhost/cal" {
		t.Errorf("store = %q, want env value", cfg.Store)
	}
	if cfg.TasksFile != "/env/tasks.json" {
		t.Errorf("tasks file = %q", cfg.TasksFile)
	}
	if cfg.SessionsFile != "/file/sessions.json" {
		t.Errorf("unset env var should keep file value, got %q", cfg.SessionsFile)
	}
	if cfg.SyncSchedule != "@hourly" || !cfg.Debug {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestEnvInvalidDebug(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYLIT_DEBUG", "sometimes")
	if _, err := Load(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Errorf("expected error for invalid STUDYLIT_DEBUG")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"descriptor", func(c *Config) { c.SyncSchedule = "@every 10m" }, false},
		{"bad schedule", func(c *Config) { c.SyncSchedule = "every now and then" }, true},
		{"good timezone", func(c *Config) { c.Timezone = "America/New_York" }, false},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLocationDefaultsToLocal(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	if err != nil {
		t.Fatal(err)
	}
	if loc.String() != "Local" {
		t.Errorf("location = %v, want Local", loc)
	}
}
