// Package customers keeps the customer directory used to prefill a quote's
// customer name, tax rate and discount.
package customers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"nestquote/internal/fsutil"
	"nestquote/internal/logger"
	"nestquote/pkg/models"
)

var (
	ErrNotFound = errors.New("customer not found")
	ErrInvalid  = errors.New("customer is invalid")
)

var validate = validator.New()

// Store persists the customer list as a YAML file.
type Store struct {
	Path       string
	LegacyPath string

	log zerolog.Logger
}

// NewStore creates a customer store
func NewStore(path, legacyPath string) *Store {
	return &Store{
		Path:       path,
		LegacyPath: legacyPath,
		log:        logger.WithComponent("customers"),
	}
}

// LoadAll returns every stored customer. Any failure yields an empty list.
func (s *Store) LoadAll() []models.Customer {
	s.migrateLegacy()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.Path).Msg("Could not read customers")
		}
		return []models.Customer{}
	}

	var list []models.Customer
	if err := yaml.Unmarshal(data, &list); err != nil {
		s.log.Warn().Err(err).Str("path", s.Path).Msg("Customers file is corrupt, ignoring it")
		return []models.Customer{}
	}
	if list == nil {
		list = []models.Customer{}
	}
	return list
}

// SaveAll replaces the stored list.
func (s *Store) SaveAll(list []models.Customer) error {
	data, err := yaml.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode customers: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.Path, data); err != nil {
		return fmt.Errorf("failed to write customers to %s: %w", s.Path, err)
	}
	return nil
}

// Add inserts c, or replaces the customer with the same ID. A customer
// without an ID gets a new one. The stored customer is returned.
func (s *Store) Add(c models.Customer) (models.Customer, error) {
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	if err := validate.Struct(c); err != nil {
		return models.Customer{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	list := s.LoadAll()
	if i := slices.IndexFunc(list, func(x models.Customer) bool { return x.ID == c.ID }); i >= 0 {
		list[i] = c
	} else {
		list = append(list, c)
	}

	if err := s.SaveAll(list); err != nil {
		return models.Customer{}, err
	}
	s.log.Info().Str("id", c.ID).Str("company", c.CompanyName).Msg("Customer saved")
	return c, nil
}

// Remove deletes the customer with the given ID.
func (s *Store) Remove(id string) error {
	list := s.LoadAll()
	n := len(list)
	list = slices.DeleteFunc(list, func(c models.Customer) bool { return c.ID == id })
	if len(list) == n {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.SaveAll(list)
}

// Find looks a customer up by ID, then by company name ignoring case.
func (s *Store) Find(idOrName string) (models.Customer, error) {
	list := s.LoadAll()
	if i := slices.IndexFunc(list, func(c models.Customer) bool { return c.ID == idOrName }); i >= 0 {
		return list[i], nil
	}

	name := strings.TrimSpace(idOrName)
	if i := slices.IndexFunc(list, func(c models.Customer) bool { return strings.EqualFold(c.CompanyName, name) }); i >= 0 {
		return list[i], nil
	}
	return models.Customer{}, fmt.Errorf("%w: %s", ErrNotFound, idOrName)
}

func (s *Store) migrateLegacy() {
	copied, err := fsutil.CopyIfMissing(s.Path, s.LegacyPath)
	if err != nil {
		s.log.Warn().Err(err).Str("legacy", s.LegacyPath).Msg("Could not migrate legacy customers")
		return
	}
	if copied {
		s.log.Info().Str("legacy", s.LegacyPath).Str("path", s.Path).Msg("Migrated legacy customers")
	}
}
