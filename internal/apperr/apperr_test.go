package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(New(NotFound, "missing")); got != NotFound {
		t.Errorf("KindOf = %v, want not_found", got)
	}
	if got := KindOf(errors.New("plain")); got != Internal {
		t.Errorf("KindOf(plain error) = %v, want internal default", got)
	}
	if got := KindOf(fmt.Errorf("outer: %w", New(UpstreamUnavailable, "down"))); got != UpstreamUnavailable {
		t.Errorf("KindOf(wrapped) = %v, want upstream_unavailable", got)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(Internal, nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(Internal, cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{Internal, false},
		{InvalidArgument, false},
		{NotFound, false},
		{MalformedModelOutput, true},
		{UpstreamUnavailable, true},
	}
	for _, tt := range tests {
		if got := Recoverable(New(tt.kind, "x")); got != tt.want {
			t.Errorf("Recoverable(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
	if Recoverable(errors.New("plain")) {
		t.Error("plain error classified as recoverable")
	}
}
