package quotenum

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Q-000001", Format(1))
	assert.Equal(t, "Q-000123", Format(123))
	assert.Equal(t, "Q-1234567", Format(1234567))
}

func TestIssuerSequenceFromMemory(t *testing.T) {
	issuer := NewIssuer(NewMemoryCounter(41))

	for want := 42; want < 47; want++ {
		got, err := issuer.NextFormatted()
		require.NoError(t, err)
		assert.Equal(t, Format(want), got)
	}
}

func TestFileCounterMonotonicAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "QuoteNumber.txt")
	require.NoError(t, os.WriteFile(path, []byte("7\n"), 0o644))

	var got []string
	first := NewIssuer(NewFileCounter(path, ""))
	for i := 0; i < 3; i++ {
		n, err := first.NextFormatted()
		require.NoError(t, err)
		got = append(got, n)
	}

	// a fresh issuer simulates a process restart
	second := NewIssuer(NewFileCounter(path, ""))
	for i := 0; i < 2; i++ {
		n, err := second.NextFormatted()
		require.NoError(t, err)
		got = append(got, n)
	}

	assert.Equal(t, []string{"Q-000008", "Q-000009", "Q-000010", "Q-000011", "Q-000012"}, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "12", string(data))
}

func TestFileCounterDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"garbage", strPtr("not a number")},
		{"empty", strPtr("")},
		{"negative", strPtr("-5")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data", "QuoteNumber.txt")
			if tt.content != nil {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			got, err := NewIssuer(NewFileCounter(path, "")).NextFormatted()
			require.NoError(t, err)
			assert.Equal(t, "Q-000001", got)
		})
	}
}

func TestFileCounterMigratesLegacyOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new", "QuoteNumber.txt")
	legacy := filepath.Join(dir, "QuoteNumber.txt")
	require.NoError(t, os.WriteFile(legacy, []byte("41"), 0o644))

	issuer := NewIssuer(NewFileCounter(path, legacy))
	got, err := issuer.NextFormatted()
	require.NoError(t, err)
	assert.Equal(t, "Q-000042", got)

	// later edits of the legacy file are ignored once the new file exists
	require.NoError(t, os.WriteFile(legacy, []byte("900"), 0o644))
	got, err = issuer.NextFormatted()
	require.NoError(t, err)
	assert.Equal(t, "Q-000043", got)
}

func TestFileCounterLegacyFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "legacy-is-a-dir")
	require.NoError(t, os.Mkdir(legacy, 0o755))

	got, err := NewIssuer(NewFileCounter(filepath.Join(dir, "QuoteNumber.txt"), legacy)).NextFormatted()
	require.NoError(t, err)
	assert.Equal(t, "Q-000001", got)
}

type failingCounter struct {
	value    int
	writeErr error
}

func (f *failingCounter) Read() (int, error) { return f.value, nil }
func (f *failingCounter) Write(n int) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.value = n
	return nil
}

func TestIssuerDoesNotReturnUnpersistedNumber(t *testing.T) {
	boom := errors.New("disk full")
	counter := &failingCounter{value: 10, writeErr: boom}

	_, err := NewIssuer(counter).Next()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, counter.value)

	var cerr *CounterError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Write", cerr.Op)
}

func TestWrapCounterError(t *testing.T) {
	assert.NoError(t, WrapCounterError("Read", nil))

	inner := &CounterError{Op: "Lock", Path: "/tmp/q.lock", Err: ErrCounterLocked, Details: "waited 5s"}
	assert.Same(t, inner, WrapCounterError("Next", inner))
	assert.Equal(t, "quotenum: Lock /tmp/q.lock failed: waited 5s: "+ErrCounterLocked.Error(), inner.Error())

	wrapped := WrapCounterError("Read", errors.New("io"))
	var cerr *CounterError
	require.ErrorAs(t, wrapped, &cerr)
	assert.Equal(t, "Read", cerr.Op)
}

type lockingCounter struct {
	MemoryCounter
	locks, unlocks int
}

func (l *lockingCounter) Lock() (func() error, error) {
	l.locks++
	return func() error { l.unlocks++; return nil }, nil
}

func TestIssuerHoldsLockAroundUpdate(t *testing.T) {
	counter := &lockingCounter{}

	n, err := NewIssuer(counter).Next()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, counter.locks)
	assert.Equal(t, 1, counter.unlocks)
}

func ExampleIssuer_NextFormatted() {
	issuer := NewIssuer(NewMemoryCounter(122))

	number, err := issuer.NextFormatted()
	if err != nil {
		panic(err)
	}
	fmt.Println(number)
	// Output: Q-000123
}

func strPtr(s string) *string { return &s }
