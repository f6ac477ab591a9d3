// Package corerr classifies pipeline errors into a small tagged taxonomy:
// input errors, retriever starvation (not actually an error), provider
// errors, comparator/benchmarker missing-side gaps, report-assembly
// omissions, cancellation, and fatal invariant violations.
package corerr

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the closed classification of a StageError.
type Kind string

const (
	KindInput      Kind = "input"
	KindProvider   Kind = "provider"
	KindComparator Kind = "comparator"
	KindAssembly   Kind = "assembly"
	KindCancelled  Kind = "cancelled"
	KindFatal      Kind = "fatal"
)

// StageError is the tagged error shape every stage returns for
// non-success classified outcomes. Wrap it with fmt.Errorf("...: %w", err)
// the same way a collaborator error gets wrapped with context.
type StageError struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Input builds a caller-facing contract-violation error (missing company
// name, empty question set, etc.) — rejected at stage entry.
func Input(stage string, err error) error {
	return &StageError{Kind: KindInput, Stage: stage, Err: err}
}

// Provider builds a provider-call error. Transient failures should have
// already been retried by the caller; this wraps the final, non-retried
// outcome for a single question's ObservationResult.
func Provider(stage string, err error) error {
	return &StageError{Kind: KindProvider, Stage: stage, Err: err}
}

// Fatal builds an error for a core invariant violation mid-pipeline (e.g. a
// Fix referencing an unknown question id). These indicate implementation
// bugs and must surface loudly; callers should not swallow a Fatal kind.
func Fatal(stage string, err error) error {
	return &StageError{Kind: KindFatal, Stage: stage, Err: err}
}

// Cancelled wraps context.Canceled (or an equivalent cancellation signal)
// into a distinct-from-normal-errors sentinel. Callers
// discard partial outputs on seeing this, matching the "Cancelled"
// clause.
func Cancelled(stage string) error {
	return &StageError{Kind: KindCancelled, Stage: stage, Err: context.Canceled}
}

// Is reports whether err is a StageError of the given Kind.
func Is(err error, kind Kind) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// IsCancelled reports whether err is this package's cancellation sentinel
// or wraps context.Canceled directly.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, KindCancelled) {
		return true
	}
	return errors.Is(err, context.Canceled)
}
