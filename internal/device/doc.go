// Package device provides the runtime state engine of the simulated rig.
//
// The Engine binds one profile at a time and keeps, for each of its devices,
// a pose, an active flag and the current value of every input component.
// Transports (the MQTT bridge, the console, the telemetry recorder) all share
// a single *Engine handle created by the binary.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                           Engine                             │
//	│                                                              │
//	│  ┌──────────────────┐         ┌───────────────────┐          │
//	│  │  Path resolver   │         │ Linked-axis sync  │          │
//	│  │  (resolve.go)    │         │ (linkage.go)      │          │
//	│  │ • exact matching │         │ • float → vec2    │          │
//	│  │ • binding split  │         │ • vec2 → floats   │          │
//	│  └──────────────────┘         └───────────────────┘          │
//	│           │                             │                    │
//	│           ▼                             ▼                    │
//	│   []runtimeDevice { pose, active, []Value }  (one mutex)     │
//	└──────────────────────────────────────────────────────────────┘
//	             ▲
//	             │ profile.Profile (immutable catalogue)
//
// # Paths
//
// Device paths look like "/user/hand/left". Component paths are suffixes that
// begin at "/input/", e.g. "/input/trigger/value". A binding path is the two
// concatenated and is split at the first "/input/".
//
// # Usage
//
//	eng := device.NewEngine()
//	eng.SetLogger(log)
//	if err := eng.Initialize(profile.Default()); err != nil {
//	    return err
//	}
//
//	_ = eng.SetInputStateVec2("/user/hand/right", "/input/thumbstick", device.Vec2{X: -0.5, Y: 0.25})
//	x, _ := eng.GetInputStateFloat("/user/hand/right", "/input/thumbstick/x") // -0.5
//
// # Coercion
//
// Typed accessors are strict: using the Float accessor on a Boolean
// component returns ErrComponentKindMismatch and leaves the stored value
// untouched. Transports that accept loosely typed input convert before
// calling the engine.
//
// # Thread Safety
//
// Every Engine method holds one mutex for its full duration.
package device
