// Package fallback runs an ordered list of fallible operations and returns the first
// success, collecting every failure along the way.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Attempt is one named fallible operation.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Failure records why an attempt did not succeed.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

// Error aggregates every failure in the order the attempts ran.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	if e == nil || len(e.Failures) == 0 {
		return "fallback: no attempts"
	}
	lines := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual failure causes to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// ErrNoAttempts is returned by First when it is given nothing to run.
var ErrNoAttempts = errors.New("fallback: no attempts")

// Observer is notified after each attempt. err is nil on success.
type Observer func(name string, err error)

// First runs the attempts in order, once each, and stops at the first success. The
// failures that preceded the success are returned alongside it. When every attempt
// fails the returned error is an *Error carrying all failures in attempt order. A
// cancelled context stops the iteration before the next attempt.
func First[T any](ctx context.Context, attempts []Attempt[T], observe Observer) (T, []Failure, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, nil, ErrNoAttempts
	}
	var failures []Failure
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			failures = append(failures, Failure{Name: attempt.Name, Err: err})
			if observe != nil {
				observe(attempt.Name, err)
			}
			return zero, failures, &Error{Failures: failures}
		}
		value, err := attempt.Run(ctx)
		if observe != nil {
			observe(attempt.Name, err)
		}
		if err == nil {
			return value, failures, nil
		}
		failures = append(failures, Failure{Name: attempt.Name, Err: err})
	}
	return zero, failures, &Error{Failures: failures}
}
