// pattern: Imperative Shell

package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "fanout.lock"

// Acquire takes an exclusive file lock under dataDir so that only one run
// mutates worktree metadata and the results directory at a time.
// Returns the flock handle (caller must defer Release) or an error if
// another run already holds the lock.
func Acquire(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	lockPath := filepath.Join(dataDir, lockFileName)
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another fanout run is already in progress")
	}
	return fl, nil
}

// Release unlocks the handle. Safe on nil.
func Release(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}
