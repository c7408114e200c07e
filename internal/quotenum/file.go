package quotenum

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"nestquote/internal/fsutil"
	"nestquote/internal/logger"
)

// DefaultLockWait bounds how long Lock waits for another process.
const DefaultLockWait = 5 * time.Second

// FileCounter stores the last issued number as base-10 text in a file.
//
// Writes go through a temporary file and a rename, so a reader never sees a
// partially written value. Lock takes an exclusive advisory lock on a sidecar
// "<path>.lock" file where the platform supports it.
type FileCounter struct {
	// Path is the counter file in the per-user data directory.
	Path string

	// LegacyPath is where older releases kept the counter. When Path does not
	// exist yet, its content is copied once. Empty disables migration.
	LegacyPath string

	// LockWait bounds how long Lock retries. Zero means DefaultLockWait.
	LockWait time.Duration

	log zerolog.Logger
}

// NewFileCounter creates a file-backed counter
func NewFileCounter(path, legacyPath string) *FileCounter {
	return &FileCounter{
		Path:       path,
		LegacyPath: legacyPath,
		log:        logger.WithComponent("quote-number"),
	}
}

// Read returns the stored value. A missing or unparsable file reads as 0.
func (c *FileCounter) Read() (int, error) {
	c.migrateLegacy()

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, &CounterError{Op: "Read", Path: c.Path, Err: err}
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		c.log.Warn().
			Str("path", c.Path).
			Str("content", strings.TrimSpace(string(data))).
			Msg("Counter file is not a number, starting from 0")
		return 0, nil
	}
	return n, nil
}

// Write persists n atomically.
func (c *FileCounter) Write(n int) error {
	if err := fsutil.WriteFileAtomic(c.Path, []byte(strconv.Itoa(n))); err != nil {
		return &CounterError{Op: "Write", Path: c.Path, Err: err}
	}
	return nil
}

// Lock acquires the sidecar lock, retrying until LockWait elapses.
func (c *FileCounter) Lock() (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, &CounterError{Op: "Lock", Path: c.Path, Err: err}
	}

	lockPath := c.Path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, &CounterError{Op: "Lock", Path: lockPath, Err: err}
	}

	wait := c.LockWait
	if wait <= 0 {
		wait = DefaultLockWait
	}
	deadline := time.Now().Add(wait)

	for {
		err = tryLock(f)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrCounterLocked) || time.Now().After(deadline) {
			f.Close()
			return nil, &CounterError{Op: "Lock", Path: lockPath, Err: err, Details: fmt.Sprintf("waited %s", wait)}
		}
		time.Sleep(25 * time.Millisecond)
	}

	return func() error {
		uerr := unlock(f)
		cerr := f.Close()
		if uerr != nil {
			return &CounterError{Op: "Unlock", Path: lockPath, Err: uerr}
		}
		return cerr
	}, nil
}

// migrateLegacy copies the legacy counter once. Failures are logged and
// ignored; the counter then starts from 0.
func (c *FileCounter) migrateLegacy() {
	copied, err := fsutil.CopyIfMissing(c.Path, c.LegacyPath)
	if err != nil {
		c.log.Warn().Err(err).Str("legacy", c.LegacyPath).Msg("Could not migrate legacy counter")
		return
	}
	if copied {
		c.log.Info().
			Str("legacy", c.LegacyPath).
			Str("path", c.Path).
			Msg("Migrated legacy quote number counter")
	}
}
