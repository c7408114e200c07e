package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nestquote/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "data", "settings.yaml"), filepath.Join(dir, "legacy", "settings.yaml"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadSeedsDefaultCharges(t *testing.T) {
	store := newTestStore(t)

	st := store.Load()
	require.Len(t, st.ExtraCharges, 4)
	for _, c := range st.ExtraCharges {
		assert.False(t, c.Enabled, c.Key)
		assert.Zero(t, c.Amount, c.Key)
	}
	assert.Equal(t, "setup_handling", st.ExtraCharges[0].Key)
	assert.Equal(t, "Setup / Handling", st.ExtraCharges[0].Name)

	// seeded defaults are persisted
	assert.FileExists(t, store.Path)
	again, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, st.ExtraCharges, again.ExtraCharges)
}

func TestLoadKeepsConfiguredCharges(t *testing.T) {
	store := newTestStore(t)
	writeFile(t, store.Path, `
company_name: Diamond Fab
hourly_laser_rate: 120
tax_rate: 7.5
extra_charges:
  - key: deburr
    name: Deburr
    amount: 15
    enabled: true
`)

	st := store.Load()
	assert.Equal(t, "Diamond Fab", st.CompanyName)
	assert.Equal(t, 120.0, st.HourlyLaserRate)
	assert.Equal(t, 7.5, st.TaxRate)
	assert.Equal(t, []models.ExtraChargeConfig{{Key: "deburr", Name: "Deburr", Amount: 15, Enabled: true}}, st.ExtraCharges)
}

func TestLoadCorruptFileFallsBack(t *testing.T) {
	store := newTestStore(t)
	writeFile(t, store.Path, "company_name: [unterminated\n")

	st := store.Load()
	assert.Equal(t, DefaultExtraCharges(), st.ExtraCharges)

	// the corrupt file is left for the user to inspect
	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Equal(t, "company_name: [unterminated\n", string(data))

	_, err = store.Read()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadMigratesLegacyFile(t *testing.T) {
	store := newTestStore(t)
	writeFile(t, store.LegacyPath, "company_name: Legacy Co\nhourly_laser_rate: 95\n")

	st := store.Load()
	assert.Equal(t, "Legacy Co", st.CompanyName)
	assert.Equal(t, 95.0, st.HourlyLaserRate)

	// once migrated the legacy file is not consulted again
	writeFile(t, store.LegacyPath, "company_name: Changed\n")
	assert.Equal(t, "Legacy Co", store.Load().CompanyName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"negative laser rate", func(s *Settings) { s.HourlyLaserRate = -1 }, true},
		{"tax above 100", func(s *Settings) { s.TaxRate = 101 }, true},
		{"bad email", func(s *Settings) { s.ContactEmail = "not-an-email" }, true},
		{"good email", func(s *Settings) { s.ContactEmail = "sales@example.com" }, false},
		{"unknown matching", func(s *Settings) { s.ChargeMatching = "fuzzy" }, true},
		{"key matching", func(s *Settings) { s.ChargeMatching = "key" }, false},
		{"negative material rate", func(s *Settings) { s.MaterialRates = map[string]float64{"A36": -2} }, true},
		{"charge without name", func(s *Settings) { s.ExtraCharges[0].Name = "" }, true},
		{"negative charge amount", func(s *Settings) { s.ExtraCharges[1].Amount = -5 }, true},
		{"duplicate charge keys", func(s *Settings) { s.ExtraCharges[1].Key = s.ExtraCharges[0].Key }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	s := Default()
	s.TaxRate = -3

	err := store.Save(s)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NoFileExists(t, store.Path)
}

func TestCharge(t *testing.T) {
	s := Default()
	c, ok := s.Charge("welding")
	require.True(t, ok)
	assert.Equal(t, "Welding", c.Name)

	_, ok = s.Charge("laser")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	s := Default()
	s.MaterialRates["A36"] = 0.5

	c := s.Clone()
	c.ExtraCharges[0].Amount = 99
	c.MaterialRates["A36"] = 1

	assert.Zero(t, s.ExtraCharges[0].Amount)
	assert.Equal(t, 0.5, s.MaterialRates["A36"])
}

func TestWatchDeliversSavedSettings(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []*Settings
	)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func(s *Settings) {
			mu.Lock()
			seen = append(seen, s)
			mu.Unlock()
		})
	}()

	s := Default()
	s.HourlyLaserRate = 150

	// the watcher starts asynchronously, keep saving until it reports
	require.Eventually(t, func() bool {
		assert.NoError(t, store.Save(s))
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Equal(t, 150.0, seen[0].HourlyLaserRate)
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
