// Package mqtt connects the simulator to an MQTT broker.
//
// This package manages:
//   - Connection with auto-reconnect and subscription restoration
//   - Online/offline status on oxsim/status, with a Last Will for crashes
//   - Publishing (raw, retained, JSON) and wildcard subscriptions
//   - Topic names under oxsim/
//
// # Topics
//
//	oxsim/status                         retained online/offline
//	oxsim/state/profile                  retained profile description
//	oxsim/state/<device path>            retained device state
//	oxsim/command/pose/<device path>     set pose
//	oxsim/command/input/<binding path>   set one component
//	oxsim/command/profile                switch profile
//
// Device and binding paths keep their slashes, so "/user/hand/left" becomes
// the topic levels "user/hand/left".
//
// # Security Considerations
//
//   - Enable cfg.Broker.TLS for anything other than a local broker
//   - Credentials come from config or OXSIM_MQTT_USERNAME / OXSIM_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        action, path, ok := mqtt.ParseCommandTopic(topic)
//	        ...
//	    })
package mqtt
