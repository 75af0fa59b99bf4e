package testutil

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func NewIs(t testing.TB) *Is {
	return &Is{t}
}

type Is struct {
	t testing.TB
}

func (is *Is) Equal(a, b any, opts ...cmp.Option) {
	is.t.Helper()
	if d := cmp.Diff(a, b, opts...); d != "" {
		is.t.Error(d)
	}
}

// Err asserts err is non-nil and, if baseErr is set, that it wraps baseErr.
func (is *Is) Err(err error, baseErr error) {
	is.t.Helper()
	if err == nil {
		is.t.Error("expected error, got none")
	} else if baseErr != nil {
		if !errors.Is(err, baseErr) {
			is.t.Errorf("expected error wrapping %q, got %q", baseErr, err)
		}
	}
}

func (is *Is) NoErr(err error) {
	is.t.Helper()
	if err != nil {
		is.t.Error(err)
	}
}

func (is *Is) True(t bool) {
	is.t.Helper()
	if !t {
		is.t.Error("expected true")
	}
}

func (is *Is) False(t bool) {
	is.t.Helper()
	if t {
		is.t.Error("expected false")
	}
}
