package device

import "errors"

// Domain errors for the device package.
//
// Every failure of the engine is reported through one of these values and
// can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // translate into a 404
//	}
var (
	// ErrProfileNotFound is returned when a profile name has no registry entry.
	ErrProfileNotFound = errors.New("device: profile not found")

	// ErrDeviceNotFound is returned when a device path does not match any
	// device of the active profile.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrComponentNotFound is returned when a component path does not match
	// any component on the resolved device.
	ErrComponentNotFound = errors.New("device: component not found")

	// ErrComponentKindMismatch is returned when a typed accessor is used on a
	// component declared with a different kind.
	ErrComponentKindMismatch = errors.New("device: component kind mismatch")

	// ErrNullProfile is returned by Initialize and SwitchDevice when no
	// profile is supplied.
	ErrNullProfile = errors.New("device: nil profile")

	// ErrInvalidBindingPath is returned when a binding path has no "/input/"
	// marker or an empty device part.
	ErrInvalidBindingPath = errors.New("device: invalid binding path")

	// ErrNotInitialized is returned by operations that need a bound profile.
	ErrNotInitialized = errors.New("device: engine not initialized")
)
