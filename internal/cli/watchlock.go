package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
)

var findProcessFunc = ps.FindProcess

// WatchLockPath is the lockfile a running watch process keeps next to storePath
func WatchLockPath(storePath string) string {
	return filepath.Join(filepath.Dir(storePath), constants.WatchLockFileName)
}

// AcquireWatchLock records the current PID for storePath. It fails when another
// live watch process already holds the lock. A stale lock is replaced.
func AcquireWatchLock(storePath string) (release func(), err error) {
	path := WatchLockPath(storePath)
	if pid, ok := RunningWatcher(storePath); ok && pid != os.Getpid() {
		return nil, fmt.Errorf("another watch process (PID %d) is already syncing this store", pid)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		return nil, fmt.Errorf("failed to write watch lock: %w", err)
	}
	return func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove watch lock", "path", path, "error", err)
		}
	}, nil
}

// RunningWatcher reports the PID of a live watch process holding the lock for storePath
func RunningWatcher(storePath string) (int, bool) {
	content, err := os.ReadFile(WatchLockPath(storePath))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, false
	}
	// PIDs are reused; only count processes that are actually this program
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return 0, false
	}
	return pid, true
}
