// Package profile provides the catalogue of simulated hardware profiles.
//
// A Profile describes one headset model (or tracker kit): its identity and
// display metadata, and the ordered list of devices it exposes. Each device
// lists the input components it carries. Profiles are pure data; nothing in
// this package holds runtime state.
//
// # Layout
//
//	Profile ("oculus_quest_2")
//	 ├── DeviceTemplate /user/head         (always active)
//	 ├── DeviceTemplate /user/hand/left
//	 │    ├── /input/trigger/value  float
//	 │    ├── /input/thumbstick     vec2
//	 │    ├── /input/thumbstick/x   float  → linked to /input/thumbstick (X)
//	 │    └── /input/x/click        boolean (left hand only)
//	 └── DeviceTemplate /user/hand/right
//
// # Usage
//
//	p, ok := profile.ByName("oculus_quest_2")
//	if !ok {
//	    return device.ErrProfileNotFound
//	}
//	for _, d := range p.Devices {
//	    fmt.Println(d.Path, len(d.ApplicableComponents()))
//	}
//
// Returned profiles are shared and must be treated as read-only.
package profile
