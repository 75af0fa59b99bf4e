package types

import (
	"testing"

	"github.com/bruth/a11y/codec"
	"github.com/bruth/a11y/testutil"
)

type WordWrapping struct {
	Enabled bool
}

type InputCode struct {
	Code string
}

func TestNewRegistry(t *testing.T) {
	type A struct{}

	// Not serializable.
	type B struct {
		C chan int
	}

	tests := map[string]struct {
		Name string
		Init func() any
		Err  bool
	}{
		"base":             {"a", func() any { return &A{} }, false},
		"dotted-name":      {"braille.word-wrapping", func() any { return &A{} }, false},
		"bad-name":         {"a b", func() any { return &A{} }, true},
		"no-init":          {"a", nil, true},
		"nil-value":        {"a", func() any { return nil }, true},
		"non-pointer":      {"a", func() any { return A{} }, true},
		"non-struct":       {"a", func() any { s := ""; return &s }, true},
		"not-serializable": {"a", func() any { return &B{} }, true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(map[string]*Type{
				test.Name: {
					Init: test.Init,
				},
			}, Codec("json"))
			if err != nil && !test.Err {
				t.Errorf("unexpected error: %s", err)
			} else if err == nil && test.Err {
				t.Errorf("expected error")
			}
		})
	}
}

func TestRegistryDuplicateGoType(t *testing.T) {
	is := testutil.NewIs(t)

	_, err := NewRegistry(map[string]*Type{
		"a": {Init: func() any { return &InputCode{} }},
		"b": {Init: func() any { return &InputCode{} }},
	})
	is.Err(err, ErrTypeNotValid)
}

func TestRegistryUnknownCodec(t *testing.T) {
	is := testutil.NewIs(t)

	_, err := NewRegistry(nil, Codec("xml"))
	is.Err(err, codec.ErrNotRegistered)
}

func TestMarshalUnmarshal(t *testing.T) {
	is := testutil.NewIs(t)

	ty := map[string]*Type{
		"word-wrapping": {Init: func() any { return &WordWrapping{} }},
		"input-code":    {Init: func() any { return &InputCode{} }},
	}

	for _, name := range []string{"json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			r, err := NewRegistry(ty, Codec(name))
			is.NoErr(err)
			is.Equal(r.Codec().Name(), name)
			is.Equal(r.Names(), []string{"input-code", "word-wrapping"})

			v1 := InputCode{Code: "EN_UEB_2"}

			// Both struct values and pointers resolve.
			tt, err := r.Lookup(&v1)
			is.NoErr(err)
			is.Equal(tt, "input-code")
			tt, err = r.Lookup(v1)
			is.NoErr(err)
			is.Equal(tt, "input-code")

			b, err := r.Marshal(&v1)
			is.NoErr(err)

			x, err := r.UnmarshalType(b, "input-code")
			is.NoErr(err)
			is.Equal(x.(*InputCode), &v1)

			_, err = r.UnmarshalType(b, "output-code")
			is.Err(err, ErrTypeNotRegistered)

			_, err = r.Marshal(&struct{}{})
			is.Err(err, ErrNoTypeForStruct)
		})
	}
}

func BenchmarkInit(b *testing.B) {
	r, _ := NewRegistry(map[string]*Type{
		"a": {Init: func() any { return &WordWrapping{} }},
	})

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = r.Init("a")
	}
}

func BenchmarkLookup(b *testing.B) {
	r, _ := NewRegistry(map[string]*Type{
		"a": {Init: func() any { return &WordWrapping{} }},
	})

	v := &WordWrapping{}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = r.Lookup(v)
	}
}
