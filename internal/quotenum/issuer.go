// Package quotenum issues sequential quote numbers such as "Q-000123".
//
// Every call to Issuer.Next consumes a number permanently: the incremented
// value is persisted before it is returned, and there is no rollback or peek.
// Storage is abstracted behind Counter so the read-increment-write sequence
// can be protected by a lock (see FileCounter) without changing callers.
package quotenum

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"nestquote/internal/logger"
)

// Counter is the durable store behind the issuer.
type Counter interface {
	// Read returns the last issued number, 0 when nothing was issued yet.
	Read() (int, error)

	// Write persists n as the last issued number.
	Write(n int) error
}

// Locker is implemented by counters that can exclude other processes for the
// duration of a read-increment-write.
type Locker interface {
	Lock() (unlock func() error, err error)
}

// Issuer hands out quote numbers from a Counter.
type Issuer struct {
	counter Counter
	log     zerolog.Logger
}

// NewIssuer creates an issuer backed by counter
func NewIssuer(counter Counter) *Issuer {
	return &Issuer{
		counter: counter,
		log:     logger.WithComponent("quote-number"),
	}
}

// Format renders n as "Q-" followed by at least six digits.
func Format(n int) string {
	return fmt.Sprintf("Q-%06d", n)
}

// Next consumes and returns the next number.
func (i *Issuer) Next() (n int, err error) {
	if l, ok := i.counter.(Locker); ok {
		unlock, lerr := l.Lock()
		if lerr != nil {
			return 0, WrapCounterError("Lock", lerr)
		}
		defer func() {
			if uerr := unlock(); uerr != nil && err == nil {
				err = WrapCounterError("Unlock", uerr)
			}
		}()
	}

	last, err := i.counter.Read()
	if err != nil {
		return 0, WrapCounterError("Read", err)
	}
	if last == math.MaxInt {
		return 0, &CounterError{Op: "Next", Err: ErrCounterOverflow}
	}

	next := last + 1
	if err := i.counter.Write(next); err != nil {
		return 0, WrapCounterError("Write", err)
	}

	i.log.Debug().Int("number", next).Msg("Issued quote number")
	return next, nil
}

// NextFormatted consumes the next number and returns it formatted.
func (i *Issuer) NextFormatted() (string, error) {
	n, err := i.Next()
	if err != nil {
		return "", err
	}
	return Format(n), nil
}
