package dto

import (
	"time"

	"github.com/google/uuid"
)

// Transform remaps a validation failure before it is surfaced to callers.
// It receives the original failure and the raw unsafe data of the instance;
// whatever it returns is raised (or reported by Err) in place of the
// original. Returning the error unchanged is valid.
type Transform func(err error, raw any) error

// DefineOpt bundles definition options.
type DefineOpt struct {
	// Transform, when set, remaps every surfaced validation failure.
	Transform Transform
	// NewID generates instance identities. Defaults to uuid.NewString.
	NewID func() string
	// Now supplies creation timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Definition is the shared, immutable, type-level state of a DTO kind:
// the schema contract, the optional error transform, and the injected
// identity/clock services. Every instance of the kind references the same
// Definition; instances hold only their own raw input and cache slot.
type Definition[T any] struct {
	name      string
	schema    Schema[T]
	transform Transform
	newID     func() string
	now       func() time.Time
}

// Define binds a DTO kind to its schema contract. The schema must be
// non-nil; everything else is optional. When multiple opts are given the
// last one wins.
func Define[T any](name string, s Schema[T], opts ...DefineOpt) (*Definition[T], error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	var opt DefineOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	d := &Definition[T]{
		name:      name,
		schema:    s,
		transform: opt.Transform,
		newID:     opt.NewID,
		now:       opt.Now,
	}
	if d.name == "" {
		d.name = "DTO"
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// MustDefine is Define but panics on error. Intended for package-level
// definition variables where a nil schema is a programming error.
func MustDefine[T any](name string, s Schema[T], opts ...DefineOpt) *Definition[T] {
	d, err := Define(name, s, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the definition's display name, used by String/Describe.
func (d *Definition[T]) Name() string { return d.name }

// New constructs an instance around raw. Construction never validates and
// never fails for schema reasons; validation happens on first demand.
func (d *Definition[T]) New(raw any) *DTO[T] {
	return &DTO[T]{
		def:       d,
		id:        d.newID(),
		createdAt: d.now(),
		raw:       raw,
	}
}

// remap applies the definition's error transform, if any.
func (d *Definition[T]) remap(err error, raw any) error {
	if err == nil {
		return nil
	}
	if d.transform != nil {
		return d.transform(err, raw)
	}
	return err
}
