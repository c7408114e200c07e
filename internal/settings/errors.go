package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is returned when the settings file is not valid YAML.
	ErrCorrupt = errors.New("settings file is corrupt")

	// ErrInvalid is returned when settings fail validation.
	ErrInvalid = errors.New("settings are invalid")
)

// SettingsError records the failed operation and the file it touched.
type SettingsError struct {
	Op   string
	Path string
	Err  error
}

func (e *SettingsError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("settings %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("settings %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SettingsError) Unwrap() error {
	return e.Err
}
