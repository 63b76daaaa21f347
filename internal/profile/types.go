package profile

import "fmt"

// ComponentKind is the declared value kind of an input component.
type ComponentKind int

// Component kinds.
const (
	KindBoolean ComponentKind = iota
	KindFloat
	KindVec2
)

// String returns the wire name of the kind ("boolean", "float", "vec2").
func (k ComponentKind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindFloat:
		return "float"
	case KindVec2:
		return "vec2"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by its wire name.
func (k ComponentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name.
func (k *ComponentKind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("profile: unknown component kind %q", b)
	}
	*k = parsed
	return nil
}

// ParseKind converts a wire name back into a ComponentKind.
func ParseKind(s string) (ComponentKind, bool) {
	switch s {
	case "boolean":
		return KindBoolean, true
	case "float":
		return KindFloat, true
	case "vec2":
		return KindVec2, true
	default:
		return 0, false
	}
}

// Axis selects one coordinate of a Vec2 component.
type Axis int

// Axes. AxisNone is only valid on templates without linkage.
const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

// String returns "x", "y" or "none".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "none"
	}
}

// MarshalText encodes the axis as "x", "y" or "none".
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "x", "y" or "none".
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "x":
		*a = AxisX
	case "y":
		*a = AxisY
	case "none", "":
		*a = AxisNone
	default:
		return fmt.Errorf("profile: unknown axis %q", b)
	}
	return nil
}

// Linkage ties a Float component to one axis of a sibling Vec2 component.
type Linkage struct {
	// Target is the path of the Vec2 component on the same device.
	Target string `json:"target"`
	Axis   Axis   `json:"axis"`
}

// ComponentTemplate describes a single input element on a device.
type ComponentTemplate struct {
	// Path is the component suffix, e.g. "/input/trigger/value".
	Path        string        `json:"path"`
	Kind        ComponentKind `json:"kind"`
	Description string        `json:"description"`

	// HandRestriction limits the component to the device with this exact
	// path. Empty means the component applies to every device it is listed on.
	HandRestriction string `json:"hand_restriction,omitempty"`

	// Linkage is only valid on Float components.
	Linkage *Linkage `json:"linkage,omitempty"`
}

// DeepCopy returns a copy that shares no memory with c.
func (c ComponentTemplate) DeepCopy() ComponentTemplate {
	if c.Linkage != nil {
		link := *c.Linkage
		c.Linkage = &link
	}
	return c
}

// AppliesTo reports whether the component is present on the given device.
func (c *ComponentTemplate) AppliesTo(devicePath string) bool {
	return c.HandRestriction == "" || c.HandRestriction == devicePath
}

// Vec3 is a position in metres.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Quat is an orientation quaternion.
type Quat struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// IdentityQuat is the zero rotation.
var IdentityQuat = Quat{W: 1}

// Pose is a position plus orientation.
type Pose struct {
	Position    Vec3 `json:"position"`
	Orientation Quat `json:"orientation"`
}

// DeviceTemplate describes one trackable endpoint of a profile.
type DeviceTemplate struct {
	// Path is the stable device identifier, e.g. "/user/hand/left".
	Path         string              `json:"user_path"`
	Role         string              `json:"role"`
	AlwaysActive bool                `json:"always_active"`
	DefaultPose  Pose                `json:"default_pose"`
	Components   []ComponentTemplate `json:"components"`
}

// DeepCopy returns a copy that shares no memory with d.
func (d *DeviceTemplate) DeepCopy() DeviceTemplate {
	cpy := *d
	if d.Components != nil {
		cpy.Components = make([]ComponentTemplate, len(d.Components))
		for i := range d.Components {
			cpy.Components[i] = d.Components[i].DeepCopy()
		}
	}
	return cpy
}

// ApplicableComponents returns the components whose hand restriction allows
// this device, in declaration order.
func (d *DeviceTemplate) ApplicableComponents() []ComponentTemplate {
	out := make([]ComponentTemplate, 0, len(d.Components))
	for i := range d.Components {
		if d.Components[i].AppliesTo(d.Path) {
			out = append(out, d.Components[i])
		}
	}
	return out
}

// Type identifies a built-in profile.
type Type int

// Built-in profile types.
const (
	TypeOculusQuest2 Type = iota
	TypeOculusQuest3
	TypeHTCVive
	TypeValveIndex
	TypeViveTracker
)

// FieldOfView holds per-eye view angles in radians.
type FieldOfView struct {
	Left  float32 `json:"left"`
	Right float32 `json:"right"`
	Up    float32 `json:"up"`
	Down  float32 `json:"down"`
}

// Display holds per-eye panel properties.
type Display struct {
	Width             uint32      `json:"width"`
	Height            uint32      `json:"height"`
	RecommendedWidth  uint32      `json:"recommended_width"`
	RecommendedHeight uint32      `json:"recommended_height"`
	RefreshRate       float32     `json:"refresh_rate"`
	FOV               FieldOfView `json:"fov"`
}

// Profile is a named hardware configuration.
type Profile struct {
	Type Type `json:"-"`

	// Name is the lookup key used in configuration, e.g. "oculus_quest_2".
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Manufacturer string `json:"manufacturer"`
	SerialPrefix string `json:"serial_prefix"`
	VendorID     uint32 `json:"vendor_id"`
	ProductID    uint32 `json:"product_id"`

	Display Display `json:"display"`

	HasPositionTracking    bool `json:"has_position_tracking"`
	HasOrientationTracking bool `json:"has_orientation_tracking"`
	HasControllers         bool `json:"has_controllers"`

	// InteractionProfile is the OpenXR interaction profile path.
	InteractionProfile string `json:"interaction_profile"`

	Devices []DeviceTemplate `json:"devices"`
}

// DeepCopy returns a copy that shares no memory with p. Catalogue lookups
// and the engine hand out copies so callers can modify what they receive.
func (p *Profile) DeepCopy() *Profile {
	if p == nil {
		return nil
	}
	cpy := *p
	if p.Devices != nil {
		cpy.Devices = make([]DeviceTemplate, len(p.Devices))
		for i := range p.Devices {
			cpy.Devices[i] = p.Devices[i].DeepCopy()
		}
	}
	return &cpy
}

// Serial returns the simulated serial number reported to the host runtime.
func (p *Profile) Serial() string {
	return p.SerialPrefix + "-12345"
}
