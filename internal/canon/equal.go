package canon

import "reflect"

// Equal reports deep structural equality of two values after normalization.
// Representation differences (struct vs map, int vs float64 spelling of the
// same number text) are erased by Normalize before comparison; numbers
// compare by canonical text via equalTree.
func Equal(a, b any) (bool, error) {
	na, err := Normalize(a)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return false, err
	}
	return equalTree(na, nb), nil
}

func equalTree(a, b any) bool {
	switch ta := a.(type) {
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, va := range ta {
			vb, ok := tb[k]
			if !ok || !equalTree(va, vb) {
				return false
			}
		}
		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !equalTree(ta[i], tb[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
