// Package apperr defines the error taxonomy for the aggregation and
// report pipeline. Errors carry a Kind so the transport layer can map
// them to status codes and the pipeline can decide which failures are
// absorbed by the fallback branch.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error
type Kind int

const (
	// Internal is an unexpected failure during aggregation or storage;
	// surfaced, since it indicates a data-integrity problem.
	Internal Kind = iota
	// InvalidArgument means a required identifier or value is missing
	// or malformed. Terminal, surfaced verbatim.
	InvalidArgument
	// NotFound means no project, or no responses to analyze. Terminal.
	NotFound
	// MalformedModelOutput means generation succeeded but the output was
	// unparsable. Absorbed locally via deterministic fallback content.
	MalformedModelOutput
	// UpstreamUnavailable means the generative service could not be
	// reached (network, auth, timeout). Absorbed via fallback.
	UpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case NotFound:
		return "not_found"
	case MalformedModelOutput:
		return "malformed_model_output"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	}
	return "internal"
}

// Error is a kinded error
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kinded error from a message
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Newf creates a kinded error from a format string
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind to an existing error, keeping it unwrappable
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the kind of err, defaulting to Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Recoverable reports whether the pipeline should absorb err by taking
// the deterministic-fallback branch instead of surfacing it.
func Recoverable(err error) bool {
	k := KindOf(err)
	return k == MalformedModelOutput || k == UpstreamUnavailable
}
