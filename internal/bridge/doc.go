// Package bridge drives the simulated rig over MQTT.
//
//	             oxsim/command/#
//	controller ──────────────────▶ Bridge ──▶ device.Engine
//	           ◀──────────────────        ◀──
//	             oxsim/state/...   (retained, on change)
//
// Commands:
//
//	oxsim/command/pose/<device path>    {"position":{...},"orientation":{...},"active":true}
//	oxsim/command/input/<binding path>  {"value":true} | {"value":0.8} | {"x":0.1,"y":-0.4}
//	oxsim/command/profile               {"device":"valve_index"}
//
// Input values are coerced to the component's kind: a number at or above
// 0.5 presses a button, and a bool sets a float to 1 or 0. Vec2 components
// need both x and y. Unknown devices, components and malformed payloads are
// logged and dropped.
package bridge
