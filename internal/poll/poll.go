// Package poll repeats a readiness check until it succeeds, a deadline
// passes or the attempt budget runs out.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Outcome is the terminal state of a poll.
type Outcome string

const (
	// OutcomeReady means the check reported ready.
	OutcomeReady Outcome = "ready"

	// OutcomeTimedOut means the timeout or attempt budget was exhausted.
	OutcomeTimedOut Outcome = "timed_out"
)

var errNotReady = errors.New("not ready")

// Policy controls the delay between checks.
type Policy struct {
	// Interval is the delay after the first unsuccessful check.
	Interval time.Duration
	// Multiplier grows the delay between checks when greater than 1.
	Multiplier float64
	// MaxInterval caps the delay when Multiplier is set.
	MaxInterval time.Duration
	// MaxAttempts limits the number of checks. Zero means unlimited.
	MaxAttempts int
	// Timeout bounds the whole poll. Zero relies on the caller's context.
	Timeout time.Duration
}

// Fixed returns a policy with a constant interval and an overall timeout.
func Fixed(interval, timeout time.Duration) Policy {
	return Policy{Interval: interval, Timeout: timeout}
}

// CheckFunc reports whether the awaited condition holds. attempt starts at 1.
type CheckFunc func(ctx context.Context, attempt int) (bool, error)

// Result describes a finished poll.
type Result struct {
	Outcome  Outcome
	Attempts int
	Elapsed  time.Duration
}

// Until runs check immediately and then according to policy. An error from
// check ends the poll and is returned as is, unless it was caused by the
// poll's own deadline, which is reported as OutcomeTimedOut.
func Until(ctx context.Context, policy Policy, check CheckFunc) (*Result, error) {
	pollCtx := ctx

	if policy.Timeout > 0 {
		var cancel context.CancelFunc

		pollCtx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	start := time.Now()
	result := &Result{}

	operation := func() error {
		result.Attempts++

		ready, err := check(pollCtx, result.Attempts)
		if err != nil {
			return backoff.Permanent(err)
		}

		if !ready {
			return errNotReady
		}

		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(policy.backOff(), pollCtx))
	result.Elapsed = time.Since(start)

	switch {
	case err == nil:
		result.Outcome = OutcomeReady

		return result, nil
	case ctx.Err() != nil:
		return result, ctx.Err()
	case errors.Is(err, errNotReady), pollCtx.Err() != nil:
		result.Outcome = OutcomeTimedOut

		return result, nil
	default:
		return result, err
	}
}

func (p Policy) backOff() backoff.BackOff {
	var b backoff.BackOff

	if p.Multiplier > 1 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = p.Interval
		exp.Multiplier = p.Multiplier
		exp.RandomizationFactor = 0
		exp.MaxElapsedTime = 0

		if p.MaxInterval > 0 {
			exp.MaxInterval = p.MaxInterval
		}

		b = exp
	} else {
		b = backoff.NewConstantBackOff(p.Interval)
	}

	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}

	return b
}
