// Package telemetry records the simulated rig as time series.
//
// Every interval the Recorder captures the engine and writes:
//
//	device_pose  tags: profile, device, role
//	             fields: px py pz qx qy qz qw active
//	input_state  tags: profile, device, component, kind
//	             fields: value (boolean and float) or x, y (vec2)
//
// Points go to a PointWriter, normally the influxdb client.
package telemetry
