package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/profile"
)

// PoseCommand is the payload of oxsim/command/pose/<device path>.
// Omitted position or orientation keep the device's current value; an
// omitted active flag means true.
type PoseCommand struct {
	Position    *profile.Vec3 `json:"position,omitempty"`
	Orientation *profile.Quat `json:"orientation,omitempty"`
	Active      *bool         `json:"active,omitempty"`
}

// InputCommand is the payload of oxsim/command/input/<binding path>:
// {"value": true}, {"value": 0.8} or {"x": 0.1, "y": -0.4}.
type InputCommand struct {
	Value json.RawMessage `json:"value,omitempty"`
	X     *float32        `json:"x,omitempty"`
	Y     *float32        `json:"y,omitempty"`
}

// ProfileCommand is the payload of oxsim/command/profile.
type ProfileCommand struct {
	Device string `json:"device"`
}

// ProfileState is the retained payload of oxsim/state/profile.
type ProfileState struct {
	*device.ProfileDescription
	Available []string `json:"available"`
}

// raw returns the loosely typed value carried by the command, ready for
// device.Coerce.
func (c InputCommand) raw() (any, error) {
	if c.X != nil || c.Y != nil {
		if c.X == nil || c.Y == nil {
			return nil, fmt.Errorf("%w: vec2 needs both x and y", ErrInvalidCommand)
		}
		return device.Vec2{X: *c.X, Y: *c.Y}, nil
	}
	if len(c.Value) == 0 {
		return nil, fmt.Errorf("%w: missing value", ErrInvalidCommand)
	}

	var v any
	if err := json.Unmarshal(c.Value, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	switch x := v.(type) {
	case bool, float64:
		return x, nil
	case map[string]any:
		var vec struct {
			X *float32 `json:"x"`
			Y *float32 `json:"y"`
		}
		if err := json.Unmarshal(c.Value, &vec); err != nil || vec.X == nil || vec.Y == nil {
			return nil, fmt.Errorf("%w: vec2 value needs both x and y", ErrInvalidCommand)
		}
		return device.Vec2{X: *vec.X, Y: *vec.Y}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %s", ErrInvalidCommand, c.Value)
	}
}
