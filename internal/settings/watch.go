package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with freshly read settings each time the settings file is
// written or replaced. It blocks until ctx is done. Unreadable or invalid
// intermediate states are logged and skipped.
//
// The parent directory is watched rather than the file, so replacements by
// rename (as Save does) are seen.
func (s *Store) Watch(ctx context.Context, fn func(*Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &SettingsError{Op: "Watch", Path: s.Path, Err: err}
	}
	if err := w.Add(dir); err != nil {
		return &SettingsError{Op: "Watch", Path: s.Path, Err: err}
	}

	target := filepath.Clean(s.Path)
	s.log.Debug().Str("path", target).Msg("Watching settings")

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			st, err := s.Read()
			if err != nil {
				s.log.Warn().Err(err).Msg("Ignoring settings change")
				continue
			}
			fn(st)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("Settings watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
