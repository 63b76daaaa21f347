// Package console is the interactive command line of the simulator.
//
// Execute runs one line and writes its output, so every command can be
// driven from tests. Run wraps it in a readline prompt with history and
// tab completion of command and profile names.
//
//	oxsim> switch valve_index
//	switched to Valve Index HMD (Simulated)
//	oxsim> set /user/hand/right/input/thumbstick 0.5,-1
//	/user/hand/right/input/thumbstick = (0.5, -1)
//	oxsim> save before grip test
//	saved 6f1c...
package console
