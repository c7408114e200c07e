//go:build unix

package quotenum

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCounterLockContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "QuoteNumber.txt")

	holder := NewFileCounter(path, "")
	release, err := holder.Lock()
	require.NoError(t, err)

	waiter := NewFileCounter(path, "")
	waiter.LockWait = 50 * time.Millisecond
	_, err = NewIssuer(waiter).Next()
	assert.ErrorIs(t, err, ErrCounterLocked)

	require.NoError(t, release())

	n, err := NewIssuer(waiter).Next()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileCounterConcurrentIssuersNeverRepeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "QuoteNumber.txt")

	const workers, perWorker = 4, 10
	results := make(chan int, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issuer := NewIssuer(NewFileCounter(path, ""))
			for i := 0; i < perWorker; i++ {
				n, err := issuer.Next()
				if err != nil {
					t.Error(err)
					return
				}
				results <- n
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for n := range results {
		assert.False(t, seen[n], "number %d issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers*perWorker)
}
