package device

import (
	"strings"

	"github.com/nerrad567/oxsim-core/internal/profile"
)

// inputMarker separates the device part of a binding path from its component part.
const inputMarker = "/input/"

// Address is a fully resolved (device, component) location in a profile.
type Address struct {
	DevicePath    string
	ComponentPath string

	// Device is the ordinal of the device within the profile.
	Device int

	// Component is the ordinal of the component within the device's
	// applicable components.
	Component int

	Kind profile.ComponentKind
}

// SplitBindingPath splits "/user/hand/right/input/trigger/value" into
// "/user/hand/right" and "/input/trigger/value". The split happens at the
// first "/input/"; ok is false when the marker is missing or the device part
// is empty.
func SplitBindingPath(binding string) (devicePath, componentPath string, ok bool) {
	i := strings.Index(binding, inputMarker)
	if i <= 0 {
		return "", "", false
	}
	return binding[:i], binding[i:], true
}

// FindDevice returns the ordinal and template of the device whose path
// equals devicePath exactly.
func FindDevice(p *profile.Profile, devicePath string) (int, *profile.DeviceTemplate, error) {
	if p == nil {
		return -1, nil, ErrDeviceNotFound
	}
	for i := range p.Devices {
		if p.Devices[i].Path == devicePath {
			return i, &p.Devices[i], nil
		}
	}
	return -1, nil, ErrDeviceNotFound
}

// FindComponent returns the ordinal and declared kind of the component whose
// path equals componentPath on device d. Components restricted to another
// hand are invisible.
func FindComponent(d *profile.DeviceTemplate, componentPath string) (int, profile.ComponentKind, error) {
	if d == nil {
		return -1, 0, ErrDeviceNotFound
	}
	idx := 0
	for i := range d.Components {
		c := &d.Components[i]
		if !c.AppliesTo(d.Path) {
			continue
		}
		if c.Path == componentPath {
			return idx, c.Kind, nil
		}
		idx++
	}
	return -1, 0, ErrComponentNotFound
}

// Resolve finds the device and component addressed by the two paths.
func Resolve(p *profile.Profile, devicePath, componentPath string) (Address, error) {
	di, d, err := FindDevice(p, devicePath)
	if err != nil {
		return Address{}, err
	}
	ci, kind, err := FindComponent(d, componentPath)
	if err != nil {
		return Address{}, err
	}
	return Address{
		DevicePath:    devicePath,
		ComponentPath: componentPath,
		Device:        di,
		Component:     ci,
		Kind:          kind,
	}, nil
}

// ResolveBinding splits a combined binding path and resolves it.
func ResolveBinding(p *profile.Profile, binding string) (Address, error) {
	devicePath, componentPath, ok := SplitBindingPath(binding)
	if !ok {
		return Address{}, ErrInvalidBindingPath
	}
	return Resolve(p, devicePath, componentPath)
}
