package device

import (
	"encoding/json"

	"github.com/nerrad567/oxsim-core/internal/profile"
)

// DeviceState is a point-in-time copy of one runtime device.
type DeviceState struct {
	Path       string           `json:"path"`
	Role       string           `json:"role"`
	Pose       profile.Pose     `json:"pose"`
	Active     bool             `json:"active"`
	Components []ComponentState `json:"components,omitempty"`
}

// ComponentState is a point-in-time copy of one component value.
type ComponentState struct {
	Path  string                `json:"path"`
	Kind  profile.ComponentKind `json:"kind"`
	Value Value                 `json:"value"`
}

// ProfileDescription is the introspection view of the active profile.
type ProfileDescription struct {
	Name               string              `json:"name"`
	DisplayName        string              `json:"display_name"`
	Manufacturer       string              `json:"manufacturer"`
	Serial             string              `json:"serial"`
	InteractionProfile string              `json:"interaction_profile"`
	Devices            []DeviceDescription `json:"devices"`
}

// DeviceDescription lists the components a device exposes.
type DeviceDescription struct {
	Path         string                      `json:"path"`
	Role         string                      `json:"role"`
	AlwaysActive bool                        `json:"always_active"`
	Components   []profile.ComponentTemplate `json:"components"`
}

// MarshalJSON encodes the payload only: a bool, a number or {"x":..,"y":..}.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
