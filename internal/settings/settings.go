// Package settings loads, validates and persists the business settings:
// company details, rates and the configurable extra charges.
package settings

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"nestquote/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings is the user-editable configuration stored as YAML.
type Settings struct {
	CompanyName    string `yaml:"company_name" json:"company_name"`
	CompanyAddress string `yaml:"company_address" json:"company_address"`
	ContactEmail   string `yaml:"contact_email" json:"contact_email" validate:"omitempty,email"`

	HourlyLaserRate        float64 `yaml:"hourly_laser_rate" json:"hourly_laser_rate" validate:"gte=0"`
	TaxRate                float64 `yaml:"tax_rate" json:"tax_rate" validate:"gte=0,lte=100"`
	DefaultDiscountPercent float64 `yaml:"default_discount_percent" json:"default_discount_percent" validate:"gte=0,lte=100"`

	// MaterialRates maps a material code to its cost per unit weight. It is
	// stored and shown by "settings show" but never priced: the cost per
	// weight always comes from the nest file.
	MaterialRates map[string]float64 `yaml:"material_rates" json:"material_rates,omitempty" validate:"dive,keys,required,endkeys,gte=0"`

	TermsAndConditions string `yaml:"terms_and_conditions" json:"terms_and_conditions"`
	LogoPath           string `yaml:"logo_path" json:"logo_path"`

	// ChargeMatching is "name" (default) or "key".
	ChargeMatching string                     `yaml:"charge_matching,omitempty" json:"charge_matching,omitempty" validate:"omitempty,oneof=name key"`
	ExtraCharges   []models.ExtraChargeConfig `yaml:"extra_charges" json:"extra_charges" validate:"unique=Key,dive"`
}

// Default returns settings with the default extra charges seeded.
func Default() *Settings {
	return &Settings{
		ChargeMatching: "name",
		MaterialRates:  map[string]float64{},
		ExtraCharges:   DefaultExtraCharges(),
	}
}

// DefaultExtraCharges returns the charges seeded into new settings. All are
// disabled with a zero amount until the user prices them.
func DefaultExtraCharges() []models.ExtraChargeConfig {
	return []models.ExtraChargeConfig{
		{Key: "setup_handling", Name: "Setup / Handling"},
		{Key: "deburr", Name: "Deburr"},
		{Key: "welding", Name: "Welding"},
		{Key: "paint", Name: "Paint"},
	}
}

// Validate checks field constraints. The returned error wraps ErrInvalid and
// lists every failing field.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Charge returns the extra charge with the given key.
func (s *Settings) Charge(key string) (models.ExtraChargeConfig, bool) {
	i := slices.IndexFunc(s.ExtraCharges, func(c models.ExtraChargeConfig) bool {
		return c.Key == key
	})
	if i < 0 {
		return models.ExtraChargeConfig{}, false
	}
	return s.ExtraCharges[i], true
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.ExtraCharges = slices.Clone(s.ExtraCharges)
	c.MaterialRates = maps.Clone(s.MaterialRates)
	return &c
}
