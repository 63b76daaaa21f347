package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/profile"
)

// payloadVersion is bumped when the record layout changes incompatibly.
const payloadVersion = 1

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same rig
// state always produces identical bytes.
var encMode cbor.EncMode

// decMode ignores unknown fields so newer payloads still decode.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// ComponentKind is stored by its wire name ("float") via MarshalText.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// payload is the stored form of a rig state. Integer keys keep blobs small.
type payload struct {
	Version int            `cbor:"1,keyasint"`
	Profile string         `cbor:"2,keyasint"`
	Devices []deviceRecord `cbor:"3,keyasint"`
}

type deviceRecord struct {
	Path        string            `cbor:"1,keyasint"`
	Position    [3]float32        `cbor:"2,keyasint"`
	Orientation [4]float32        `cbor:"3,keyasint"`
	Active      bool              `cbor:"4,keyasint"`
	Components  []componentRecord `cbor:"5,keyasint,omitempty"`
	Role        string            `cbor:"6,keyasint,omitempty"`
}

type componentRecord struct {
	Path  string                `cbor:"1,keyasint"`
	Kind  profile.ComponentKind `cbor:"2,keyasint"`
	Bool  bool                  `cbor:"3,keyasint,omitempty"`
	Float float32               `cbor:"4,keyasint,omitempty"`
	Vec2  [2]float32            `cbor:"5,keyasint"`
}

// Encode serialises a profile name and its device states.
func Encode(profileName string, devices []device.DeviceState) ([]byte, error) {
	p := payload{
		Version: payloadVersion,
		Profile: profileName,
		Devices: make([]deviceRecord, len(devices)),
	}
	for i, d := range devices {
		pos, rot := d.Pose.Position, d.Pose.Orientation
		rec := deviceRecord{
			Path:        d.Path,
			Role:        d.Role,
			Position:    [3]float32{pos.X, pos.Y, pos.Z},
			Orientation: [4]float32{rot.X, rot.Y, rot.Z, rot.W},
			Active:      d.Active,
			Components:  make([]componentRecord, len(d.Components)),
		}
		for j, c := range d.Components {
			cr := componentRecord{Path: c.Path, Kind: c.Value.Kind()}
			switch c.Value.Kind() {
			case profile.KindBoolean:
				cr.Bool, _ = c.Value.Bool()
			case profile.KindFloat:
				cr.Float, _ = c.Value.Float()
			case profile.KindVec2:
				v, _ := c.Value.Vec2()
				cr.Vec2 = [2]float32{v.X, v.Y}
			}
			rec.Components[j] = cr
		}
		p.Devices[i] = rec
	}

	b, err := encMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a payload written by Encode.
func Decode(data []byte) (string, []device.DeviceState, error) {
	var p payload
	if err := decMode.Unmarshal(data, &p); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if p.Version != payloadVersion {
		return "", nil, fmt.Errorf("%w: unsupported payload version %d", ErrInvalidSnapshot, p.Version)
	}

	devices := make([]device.DeviceState, len(p.Devices))
	for i, rec := range p.Devices {
		ds := device.DeviceState{
			Path: rec.Path,
			Role: rec.Role,
			Pose: profile.Pose{
				Position:    profile.Vec3{X: rec.Position[0], Y: rec.Position[1], Z: rec.Position[2]},
				Orientation: profile.Quat{X: rec.Orientation[0], Y: rec.Orientation[1], Z: rec.Orientation[2], W: rec.Orientation[3]},
			},
			Active:     rec.Active,
			Components: make([]device.ComponentState, 0, len(rec.Components)),
		}
		for _, cr := range rec.Components {
			var v device.Value
			switch cr.Kind {
			case profile.KindBoolean:
				v = device.BoolValue(cr.Bool)
			case profile.KindFloat:
				v = device.FloatValue(cr.Float)
			case profile.KindVec2:
				v = device.Vec2Value(device.Vec2{X: cr.Vec2[0], Y: cr.Vec2[1]})
			default:
				continue
			}
			ds.Components = append(ds.Components, device.ComponentState{Path: cr.Path, Kind: cr.Kind, Value: v})
		}
		devices[i] = ds
	}
	return p.Profile, devices, nil
}
