package device

import (
	"fmt"

	"github.com/nerrad567/oxsim-core/internal/profile"
)

// Vec2 is a two-axis input value such as a thumbstick or trackpad.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Value is the runtime value of one component slot.
// Exactly one of the bool, float or vec2 payloads is meaningful, selected by Kind.
type Value struct {
	kind profile.ComponentKind
	b    bool
	f    float32
	v    Vec2
}

// BoolValue returns a Boolean value.
func BoolValue(b bool) Value { return Value{kind: profile.KindBoolean, b: b} }

// FloatValue returns a Float value.
func FloatValue(f float32) Value { return Value{kind: profile.KindFloat, f: f} }

// Vec2Value returns a Vec2 value.
func Vec2Value(v Vec2) Value { return Value{kind: profile.KindVec2, v: v} }

// ZeroValue returns false, 0 or {0,0} for the given kind.
func ZeroValue(kind profile.ComponentKind) Value {
	return Value{kind: kind}
}

// Kind returns the tag of the value.
func (v Value) Kind() profile.ComponentKind { return v.kind }

// Bool returns the payload when the value is Boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == profile.KindBoolean }

// Float returns the payload when the value is Float.
func (v Value) Float() (float32, bool) { return v.f, v.kind == profile.KindFloat }

// Vec2 returns the payload when the value is Vec2.
func (v Value) Vec2() (Vec2, bool) { return v.v, v.kind == profile.KindVec2 }

// Interface returns the payload as bool, float32 or Vec2.
func (v Value) Interface() any {
	switch v.kind {
	case profile.KindBoolean:
		return v.b
	case profile.KindFloat:
		return v.f
	case profile.KindVec2:
		return v.v
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case profile.KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case profile.KindFloat:
		return fmt.Sprintf("%g", v.f)
	case profile.KindVec2:
		return fmt.Sprintf("(%g, %g)", v.v.X, v.v.Y)
	default:
		return "<invalid>"
	}
}
