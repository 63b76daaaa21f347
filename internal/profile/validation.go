package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned when a profile breaks a schema rule.
var ErrInvalidProfile = errors.New("profile: invalid")

// Validate checks the structural rules every profile must satisfy:
//   - name and at least one device are present
//   - device paths are unique and start with "/user/"
//   - component paths on a device are unique and start with "/input/"
//   - linkage appears only on Float components, uses axis X or Y, and targets
//     a Vec2 component on the same device that applies to the same hands
func Validate(p *Profile) error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if len(p.Devices) == 0 {
		return fmt.Errorf("%w: %s has no devices", ErrInvalidProfile, p.Name)
	}

	seen := make(map[string]bool, len(p.Devices))
	for i := range p.Devices {
		d := &p.Devices[i]
		if len(d.Path) < len("/user/") || d.Path[:len("/user/")] != "/user/" {
			return fmt.Errorf("%w: device path %q must start with /user/", ErrInvalidProfile, d.Path)
		}
		if seen[d.Path] {
			return fmt.Errorf("%w: duplicate device path %q", ErrInvalidProfile, d.Path)
		}
		seen[d.Path] = true

		if err := validateComponents(d); err != nil {
			return err
		}
	}
	return nil
}

func validateComponents(d *DeviceTemplate) error {
	kinds := make(map[string]ComponentKind)
	for _, c := range d.ApplicableComponents() {
		if len(c.Path) < len("/input/") || c.Path[:len("/input/")] != "/input/" {
			return fmt.Errorf("%w: %s component %q must start with /input/", ErrInvalidProfile, d.Path, c.Path)
		}
		if _, dup := kinds[c.Path]; dup {
			return fmt.Errorf("%w: %s has duplicate component %q", ErrInvalidProfile, d.Path, c.Path)
		}
		kinds[c.Path] = c.Kind
	}

	for _, c := range d.ApplicableComponents() {
		if c.Linkage == nil {
			continue
		}
		if c.Kind != KindFloat {
			return fmt.Errorf("%w: %s%s: linkage requires a float component", ErrInvalidProfile, d.Path, c.Path)
		}
		if c.Linkage.Axis != AxisX && c.Linkage.Axis != AxisY {
			return fmt.Errorf("%w: %s%s: linkage axis must be x or y", ErrInvalidProfile, d.Path, c.Path)
		}
		kind, ok := kinds[c.Linkage.Target]
		if !ok {
			return fmt.Errorf("%w: %s%s: linkage target %q not on device", ErrInvalidProfile, d.Path, c.Path, c.Linkage.Target)
		}
		if kind != KindVec2 {
			return fmt.Errorf("%w: %s%s: linkage target %q is not vec2", ErrInvalidProfile, d.Path, c.Path, c.Linkage.Target)
		}
	}
	return nil
}
