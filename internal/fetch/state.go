// Package fetch loads hotel details and polls room prices in the
// background, publishing each transition as a State snapshot.
//
// Consumers read State() whenever Changed() fires. The channel coalesces
// notifications, so a slow reader skips intermediate states but always sees
// the latest one.
package fetch

import (
	"context"
	"time"

	"github.com/alex-user-go/hotelview/internal/errs"
)

// ErrTimedOut is reported when price polling exhausts its attempts.
var ErrTimedOut = errs.New("timed out waiting for prices")

// Status is the lifecycle phase of a fetch.
type Status int

const (
	// StatusIdle means nothing has been requested yet.
	StatusIdle Status = iota
	// StatusLoading means a request is in flight and nothing is known yet.
	StatusLoading
	// StatusPending means the API answered but the result is not complete.
	StatusPending
	// StatusReady means Value holds the result.
	StatusReady
	// StatusError means the fetch failed; Err holds the reason.
	StatusError
	// StatusTimedOut means polling gave up before the result completed.
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Busy reports whether a loading indicator should be shown.
func (s Status) Busy() bool {
	return s == StatusLoading || s == StatusPending
}

// Terminal reports whether no further transition will happen without a new
// request.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError || s == StatusTimedOut
}

// State is a snapshot of a fetch. Key identifies what is being fetched (a
// hotel id). Attempt counts price poll requests and stays zero for detail
// fetches.
type State[T any] struct {
	Status  Status
	Key     string
	Value   T
	Err     error
	Attempt int
}

// signal is a coalescing, non-blocking notification channel.
type signal chan struct{}

func newSignal() signal {
	return make(signal, 1)
}

func (s signal) notify() {
	select {
	case s <- struct{}{}:
	default:
	}
}

// sleepCtx waits for d or until ctx ends, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
