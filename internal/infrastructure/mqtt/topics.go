package mqtt

import "strings"

// TopicPrefix is the root of every oxsim topic.
const TopicPrefix = "oxsim"

// Command actions carried in command topics.
const (
	ActionPose    = "pose"
	ActionInput   = "input"
	ActionProfile = "profile"
)

// Topics builds oxsim topic names.
//
// Device and binding paths already start with "/", so they are appended
// as-is and their segments become topic levels:
//
//	Topics{}.DeviceState("/user/hand/left") // "oxsim/state/user/hand/left"
type Topics struct{}

// Status is the retained online/offline topic (also the LWT topic).
func (Topics) Status() string {
	return TopicPrefix + "/status"
}

// DeviceState is the retained state topic for one device.
func (Topics) DeviceState(devicePath string) string {
	return TopicPrefix + "/state" + devicePath
}

// ProfileState is the retained topic holding the active profile description.
func (Topics) ProfileState() string {
	return TopicPrefix + "/state/profile"
}

// PoseCommand is the topic that sets a device pose.
func (Topics) PoseCommand(devicePath string) string {
	return TopicPrefix + "/command/" + ActionPose + devicePath
}

// InputCommand is the topic that sets one component, addressed by its full
// binding path.
func (Topics) InputCommand(bindingPath string) string {
	return TopicPrefix + "/command/" + ActionInput + bindingPath
}

// ProfileCommand is the topic that switches the active profile.
func (Topics) ProfileCommand() string {
	return TopicPrefix + "/command/" + ActionProfile
}

// AllCommands matches every command topic.
func (Topics) AllCommands() string {
	return TopicPrefix + "/command/#"
}

// ParseCommandTopic splits a command topic into its action and the path it
// addresses. The path keeps its leading "/" and is empty for the profile
// action. ok is false for anything that is not a command topic.
func ParseCommandTopic(topic string) (action, path string, ok bool) {
	rest, found := strings.CutPrefix(topic, TopicPrefix+"/command/")
	if !found || rest == "" {
		return "", "", false
	}
	action, path, _ = strings.Cut(rest, "/")
	if path != "" {
		path = "/" + path
	}
	switch action {
	case ActionPose, ActionInput:
		if path == "" {
			return "", "", false
		}
	case ActionProfile:
		if path != "" {
			return "", "", false
		}
	default:
		return "", "", false
	}
	return action, path, true
}
