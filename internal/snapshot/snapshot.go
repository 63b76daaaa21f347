package snapshot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/profile"
)

// Snapshot is a saved copy of the whole rig: every device's pose, active
// flag and component values, tagged with the profile it belongs to.
type Snapshot struct {
	ID        string
	Profile   string
	Label     string
	Devices   []device.DeviceState
	CreatedAt time.Time
}

// Rig is the subset of *device.Engine used to capture and restore snapshots.
type Rig interface {
	Capture() (string, []device.DeviceState, error)
	Profile() *profile.Profile
	SwitchProfile(name string) (*profile.Profile, error)
	Restore(states []device.DeviceState) error
}

// Capture takes a snapshot of the rig's current state.
func Capture(rig Rig, label string) (*Snapshot, error) {
	name, devices, err := rig.Capture()
	if err != nil {
		return nil, fmt.Errorf("capturing rig: %w", err)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Profile:   name,
		Label:     label,
		Devices:   devices,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Restore applies s to the rig, switching profile first when the snapshot was
// taken under a different one. Entries the profile no longer has are skipped
// by the engine.
func Restore(rig Rig, s *Snapshot) error {
	if s == nil {
		return ErrSnapshotNotFound
	}
	if p := rig.Profile(); p == nil || p.Name != s.Profile {
		if _, err := rig.SwitchProfile(s.Profile); err != nil {
			return fmt.Errorf("switching to profile %q: %w", s.Profile, err)
		}
	}
	if err := rig.Restore(s.Devices); err != nil {
		return fmt.Errorf("restoring snapshot %s: %w", s.ID, err)
	}
	return nil
}
