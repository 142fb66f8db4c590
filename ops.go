package dto

import (
	"context"
	"fmt"

	"github.com/objkit/dto/internal/canon"
)

// Carrier is the minimal surface Equals needs from the other side of a
// comparison. Every DTO satisfies it, so instances of different
// definitions remain comparable by value.
type Carrier interface {
	DataAny(ctx context.Context) (any, error)
}

// Equals reports whether both instances hold deep-equal validated data.
// Equality is structural: field order and the concrete Go representation
// are irrelevant, identity is ignored. Both sides are forced to validate;
// a validation failure from either side propagates to the caller, there is
// no fallback to comparing raw input.
func (d *DTO[T]) Equals(ctx context.Context, other Carrier) (bool, error) {
	if other == nil {
		return false, nil
	}
	a, err := d.DataAny(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.DataAny(ctx)
	if err != nil {
		return false, err
	}
	eq, err := canon.Equal(a, b)
	if err != nil {
		return false, singleIssue(CodeParseError, err.Error())
	}
	return eq, nil
}

// Clone constructs a new instance of the same definition around a deep copy
// of this instance's raw input. The clone gets a fresh identity and
// creation timestamp, validates to the same outcome as the original, and
// shares no mutable state with it: mutating nested structures reachable
// from one side never affects the other.
func (d *DTO[T]) Clone() *DTO[T] {
	return d.def.New(canon.DeepCopy(d.raw))
}

// With constructs a new instance whose raw input is this instance's raw
// input overlaid with partial: fields named in partial replace same-named
// top-level fields wholesale (no deep merge), unnamed fields carry over.
// The original is untouched and the derived instance has a fresh identity.
// Carried-over and supplied values are deep-copied so the two instances
// never alias mutable state. Errors when the raw input is not an object.
func (d *DTO[T]) With(partial map[string]any) (*DTO[T], error) {
	tree, err := canon.Normalize(d.raw)
	if err != nil {
		return nil, singleIssue(CodeParseError, err.Error())
	}
	base, ok := tree.(map[string]any)
	if !ok {
		return nil, singleIssue(CodeInvalidType, "raw input is not an object")
	}
	merged := make(map[string]any, len(base)+len(partial))
	for k, v := range base {
		merged[k] = canon.DeepCopy(v)
	}
	for k, v := range partial {
		merged[k] = canon.DeepCopy(v)
	}
	return d.def.New(merged), nil
}

// Describe returns the debug representation: definition name, identity and
// compact canonical JSON. It triggers validation and raises its failures.
func (d *DTO[T]) Describe(ctx context.Context) (string, error) {
	text, err := d.JSON(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s#%s %s", d.def.name, d.id, text), nil
}

// String implements fmt.Stringer as a best-effort Describe: when
// validation fails the failure is rendered inline instead of raised.
func (d *DTO[T]) String() string {
	s, err := d.Describe(context.Background())
	if err != nil {
		return fmt.Sprintf("%s#%s invalid: %v", d.def.name, d.id, err)
	}
	return s
}
