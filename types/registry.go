package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/bruth/a11y/codec"
)

var (
	ErrTypeNotValid      = errors.New("a11y: type not valid")
	ErrTypeNotRegistered = errors.New("a11y: type not registered")
	ErrNoTypeForStruct   = errors.New("a11y: no type for struct")

	nameRegex = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*$`)
)

func validateTypeName(n string) error {
	if !nameRegex.MatchString(n) {
		return fmt.Errorf("%w: name %q has invalid characters", ErrTypeNotValid, n)
	}
	return nil
}

// Type describes a record type. Init must return a new pointer to a struct.
type Type struct {
	Init func() any
}

type registryOption func(o *Registry) error

func (f registryOption) addOption(o *Registry) error {
	return f(o)
}

// RegistryOption models a option when creating a type registry.
type RegistryOption interface {
	addOption(o *Registry) error
}

// Codec is a registry option to define the desired serialization codec.
func Codec(name string) RegistryOption {
	return registryOption(func(o *Registry) error {
		c, err := codec.Registry.Get(name)
		if err != nil {
			return err
		}
		o.codec = c
		return nil
	})
}

// Registry maps record type names, which double as message subject
// tokens, to Go types and encodes values with a single codec.
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	codec codec.Codec

	types map[string]*Type

	// Reflection type to the type name.
	rtypes map[reflect.Type]string
}

func (r *Registry) Codec() codec.Codec {
	return r.codec
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) validate(name string, typ *Type) error {
	if name == "" {
		return fmt.Errorf("%w: missing name", ErrTypeNotValid)
	}

	if err := validateTypeName(name); err != nil {
		return err
	}

	if typ == nil || typ.Init == nil {
		return fmt.Errorf("%w: %s: init func is nil", ErrTypeNotValid, name)
	}

	v := typ.Init()
	if v == nil {
		return fmt.Errorf("%w: %s: init func returns nil", ErrTypeNotValid, name)
	}

	rt := reflect.TypeOf(v)

	// Decoding needs a pointer.
	if rt.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: %s: init func must return a pointer value", ErrTypeNotValid, name)
	}

	if rt.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s: value type must be a struct", ErrTypeNotValid, name)
	}

	if other, ok := r.rtypes[rt]; ok {
		return fmt.Errorf("%w: %s: %s already registered as %q", ErrTypeNotValid, name, rt, other)
	}

	// Ensure [de]serialization works in the base case.
	b, err := r.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: failed to marshal with codec: %s", ErrTypeNotValid, name, err)
	}

	err = r.codec.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("%w: %s: failed to unmarshal with codec: %s", ErrTypeNotValid, name, err)
	}

	return nil
}

func (r *Registry) addType(name string, typ *Type) {
	r.types[name] = typ

	rt := reflect.TypeOf(typ.Init())
	r.rtypes[rt] = name
	r.rtypes[rt.Elem()] = name
}

// Init returns a new value given the registered name of the type.
func (r *Registry) Init(t string) (any, error) {
	x, ok := r.types[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotRegistered, t)
	}
	return x.Init(), nil
}

// Lookup returns the registered name of the type given a value.
func (r *Registry) Lookup(v any) (string, error) {
	rt := reflect.TypeOf(v)
	t, ok := r.rtypes[rt]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoTypeForStruct, rt)
	}
	return t, nil
}

// Marshal serializes the value to a byte slice. This call
// validates the type is registered and delegates to the codec.
func (r *Registry) Marshal(v any) ([]byte, error) {
	_, err := r.Lookup(v)
	if err != nil {
		return nil, err
	}

	b, err := r.codec.Marshal(v)
	if err != nil {
		return b, fmt.Errorf("%T: marshal error: %w", v, err)
	}
	return b, nil
}

// Unmarshal deserializes a byte slice into the value. This call
// validates the type is registered and delegates to the codec.
func (r *Registry) Unmarshal(b []byte, v any) error {
	_, err := r.Lookup(v)
	if err != nil {
		return err
	}

	err = r.codec.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("%T: unmarshal error: %w", v, err)
	}
	return nil
}

// UnmarshalType initializes a new value for the registered type,
// unmarshals the byte slice, and returns it.
func (r *Registry) UnmarshalType(b []byte, t string) (any, error) {
	v, err := r.Init(t)
	if err != nil {
		return nil, err
	}
	err = r.Unmarshal(b, v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func NewRegistry(types map[string]*Type, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		codec:  codec.Default,
		types:  make(map[string]*Type),
		rtypes: make(map[reflect.Type]string),
	}

	for _, f := range opts {
		if err := f.addOption(r); err != nil {
			return nil, err
		}
	}

	for n, t := range types {
		err := r.validate(n, t)
		if err != nil {
			return nil, err
		}
		r.addType(n, t)
	}

	return r, nil
}
