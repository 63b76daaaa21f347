package device

import (
	"fmt"

	"github.com/nerrad567/oxsim-core/internal/profile"
)

// boolThreshold is the numeric level at or above which a number counts as
// pressed when written to a Boolean component.
const boolThreshold = 0.5

// Coerce converts a loosely typed transport value into a Value of the given
// kind. The engine itself never converts; transports call this first.
//
//   - Boolean accepts a bool, or a number (>= 0.5 is true)
//   - Float accepts a number, or a bool (1 or 0)
//   - Vec2 accepts a Vec2 only
//
// Anything else returns ErrComponentKindMismatch.
func Coerce(kind profile.ComponentKind, raw any) (Value, error) {
	switch kind {
	case profile.KindBoolean:
		switch x := raw.(type) {
		case bool:
			return BoolValue(x), nil
		default:
			if f, ok := number(raw); ok {
				return BoolValue(f >= boolThreshold), nil
			}
		}
	case profile.KindFloat:
		if b, ok := raw.(bool); ok {
			if b {
				return FloatValue(1), nil
			}
			return FloatValue(0), nil
		}
		if f, ok := number(raw); ok {
			return FloatValue(float32(f)), nil
		}
	case profile.KindVec2:
		if v, ok := raw.(Vec2); ok {
			return Vec2Value(v), nil
		}
	}
	return Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrComponentKindMismatch, raw, kind)
}

func number(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
