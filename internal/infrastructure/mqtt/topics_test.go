package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Status", Topics{}.Status(), "oxsim/status"},
		{"DeviceState", Topics{}.DeviceState("/user/hand/left"), "oxsim/state/user/hand/left"},
		{"ProfileState", Topics{}.ProfileState(), "oxsim/state/profile"},
		{"PoseCommand", Topics{}.PoseCommand("/user/head"), "oxsim/command/pose/user/head"},
		{"InputCommand", Topics{}.InputCommand("/user/hand/right/input/a/click"), "oxsim/command/input/user/hand/right/input/a/click"},
		{"ProfileCommand", Topics{}.ProfileCommand(), "oxsim/command/profile"},
		{"AllCommands", Topics{}.AllCommands(), "oxsim/command/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestParseCommandTopic(t *testing.T) {
	tests := []struct {
		topic      string
		wantAction string
		wantPath   string
		wantOK     bool
	}{
		{"oxsim/command/pose/user/hand/left", ActionPose, "/user/hand/left", true},
		{"oxsim/command/input/user/hand/right/input/trigger/value", ActionInput, "/user/hand/right/input/trigger/value", true},
		{"oxsim/command/profile", ActionProfile, "", true},
		{"oxsim/command/pose", "", "", false},
		{"oxsim/command/profile/extra", "", "", false},
		{"oxsim/command/reset/user/head", "", "", false},
		{"oxsim/command/", "", "", false},
		{"oxsim/state/user/head", "", "", false},
		{"other/command/pose/user/head", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			action, path, ok := ParseCommandTopic(tt.topic)
			if action != tt.wantAction || path != tt.wantPath || ok != tt.wantOK {
				t.Errorf("ParseCommandTopic() = %q, %q, %v; want %q, %q, %v",
					action, path, ok, tt.wantAction, tt.wantPath, tt.wantOK)
			}
		})
	}
}

func TestTopicsRoundTrip(t *testing.T) {
	for _, dev := range []string{"/user/head", "/user/vive_tracker_htcx/role/waist"} {
		action, path, ok := ParseCommandTopic(Topics{}.PoseCommand(dev))
		if !ok || action != ActionPose || path != dev {
			t.Errorf("PoseCommand(%s) parsed as %q %q %v", dev, action, path, ok)
		}
	}
}
