package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"nestquote/internal/fsutil"
	"nestquote/internal/logger"
)

// Store persists Settings as a YAML file.
type Store struct {
	// Path is the settings file in the per-user data directory.
	Path string

	// LegacyPath is copied to Path once when Path does not exist. Empty
	// disables migration.
	LegacyPath string

	log zerolog.Logger
}

// NewStore creates a settings store
func NewStore(path, legacyPath string) *Store {
	return &Store{
		Path:       path,
		LegacyPath: legacyPath,
		log:        logger.WithComponent("settings"),
	}
}

// Load returns the stored settings, always producing something usable.
// A missing or corrupt file yields defaults. When no extra charges are
// configured the defaults are seeded and written back.
func (s *Store) Load() *Settings {
	s.migrateLegacy()

	st, err := s.Read()
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		st = &Settings{}
	default:
		s.log.Warn().Err(err).Str("path", s.Path).Msg("Falling back to default settings")
		return Default()
	}

	if len(st.ExtraCharges) == 0 {
		st.ExtraCharges = DefaultExtraCharges()
		if err := s.Save(st); err != nil {
			s.log.Warn().Err(err).Str("path", s.Path).Msg("Could not persist default extra charges")
		}
	}
	return st
}

// Read parses the settings file without falling back. The error wraps
// fs.ErrNotExist, ErrCorrupt or ErrInvalid.
func (s *Store) Read() (*Settings, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &SettingsError{Op: "Read", Path: s.Path, Err: err}
	}

	st := &Settings{}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, &SettingsError{Op: "Read", Path: s.Path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	if err := st.Validate(); err != nil {
		return nil, &SettingsError{Op: "Read", Path: s.Path, Err: err}
	}
	return st, nil
}

// Save validates st and writes it atomically.
func (s *Store) Save(st *Settings) error {
	if err := st.Validate(); err != nil {
		return &SettingsError{Op: "Save", Path: s.Path, Err: err}
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return &SettingsError{Op: "Save", Path: s.Path, Err: err}
	}
	if err := fsutil.WriteFileAtomic(s.Path, data); err != nil {
		return &SettingsError{Op: "Save", Path: s.Path, Err: err}
	}

	s.log.Debug().Str("path", s.Path).Int("extra_charges", len(st.ExtraCharges)).Msg("Settings saved")
	return nil
}

func (s *Store) migrateLegacy() {
	copied, err := fsutil.CopyIfMissing(s.Path, s.LegacyPath)
	if err != nil {
		s.log.Warn().Err(err).Str("legacy", s.LegacyPath).Msg("Could not migrate legacy settings")
		return
	}
	if copied {
		s.log.Info().Str("legacy", s.LegacyPath).Str("path", s.Path).Msg("Migrated legacy settings")
	}
}
