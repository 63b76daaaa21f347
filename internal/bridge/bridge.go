package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/oxsim-core/internal/profile"
)

// MQTTClient is the broker surface the bridge needs. *mqtt.Client
// satisfies it.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishJSON(topic string, v any, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error
	Unsubscribe(topic string) error
}

// Rig is the engine surface the bridge drives. *device.Engine satisfies it.
type Rig interface {
	Capture() (string, []device.DeviceState, error)
	Describe() (*device.ProfileDescription, error)
	SwitchProfile(name string) (*profile.Profile, error)
	GetDevicePose(devicePath string) (profile.Pose, bool, error)
	SetDevicePose(devicePath string, pose profile.Pose, active bool) error
	ComponentKind(devicePath, componentPath string) (profile.ComponentKind, error)
	SetInputState(devicePath, componentPath string, v device.Value) error
}

// Logger is the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options holds the dependencies of a Bridge.
type Options struct {
	Client MQTTClient
	Rig    Rig

	// QoS for state publications and the command subscription.
	QoS byte

	// Interval is how often Run checks the rig for changes.
	Interval time.Duration

	// Logger is optional.
	Logger Logger
}

// Bridge exposes the rig over MQTT.
//
// Outbound, it publishes retained JSON for every device whose state changed
// since the last publication, and the profile description whenever the
// profile changes. Inbound, it applies pose, input and profile commands.
// Commands that fail are logged and dropped.
type Bridge struct {
	client   MQTTClient
	rig      Rig
	qos      byte
	interval time.Duration
	logger   Logger

	// mu serialises publication so the change cache stays coherent
	// between the ticker and command handlers.
	mu          sync.Mutex
	lastProfile string
	lastState   map[string][]byte
}

// New creates a bridge. Call Start, then Run.
func New(opts Options) (*Bridge, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("%w: MQTT client", ErrMissingDependency)
	}
	if opts.Rig == nil {
		return nil, fmt.Errorf("%w: rig", ErrMissingDependency)
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bridge{
		client:    opts.Client,
		rig:       opts.Rig,
		qos:       opts.QoS,
		interval:  opts.Interval,
		logger:    logger,
		lastState: make(map[string][]byte),
	}, nil
}

// Start subscribes to the command topics and publishes the full rig state.
func (b *Bridge) Start() error {
	topic := mqtt.Topics{}.AllCommands()
	if err := b.client.Subscribe(topic, b.qos, b.onMessage); err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}
	b.logger.Info("bridge subscribed to commands", "topic", topic)

	if _, err := b.PublishChanges(); err != nil {
		return err
	}
	return nil
}

// Stop drops the command subscription. Retained state stays on the broker.
// Call it before closing the MQTT client.
func (b *Bridge) Stop() error {
	topic := mqtt.Topics{}.AllCommands()
	if err := b.client.Unsubscribe(topic); err != nil {
		return fmt.Errorf("unsubscribing from commands: %w", err)
	}
	b.logger.Info("bridge unsubscribed from commands", "topic", topic)
	return nil
}

// Run publishes changes every interval until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if b.interval <= 0 {
		return fmt.Errorf("bridge: interval must be positive, got %v", b.interval)
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := b.PublishChanges(); err != nil {
				b.logger.Warn("bridge publish failed", "error", err)
			}
		}
	}
}

// Resync forgets what was published so the next PublishChanges sends
// everything again. Call it after a broker reconnect.
func (b *Bridge) Resync() {
	b.mu.Lock()
	b.lastProfile = ""
	clear(b.lastState)
	b.mu.Unlock()
}

// PublishChanges publishes the profile description if the profile changed
// and the state of every device whose JSON differs from the last
// publication. It returns the number of messages sent.
func (b *Bridge) PublishChanges() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name, devices, err := b.rig.Capture()
	if err != nil {
		return 0, fmt.Errorf("capturing rig: %w", err)
	}

	sent := 0
	if name != b.lastProfile {
		if err := b.publishProfile(); err != nil {
			return sent, err
		}
		b.lastProfile = name
		clear(b.lastState)
		sent++
	}

	for i := range devices {
		d := &devices[i]
		payload, err := json.Marshal(d)
		if err != nil {
			return sent, fmt.Errorf("encoding %s: %w", d.Path, err)
		}
		if bytes.Equal(b.lastState[d.Path], payload) {
			continue
		}
		if err := b.client.Publish(mqtt.Topics{}.DeviceState(d.Path), payload, b.qos, true); err != nil {
			return sent, fmt.Errorf("publishing %s: %w", d.Path, err)
		}
		b.lastState[d.Path] = payload
		sent++
	}
	return sent, nil
}

func (b *Bridge) publishProfile() error {
	desc, err := b.rig.Describe()
	if err != nil {
		return fmt.Errorf("describing profile: %w", err)
	}
	state := ProfileState{ProfileDescription: desc, Available: profile.Names()}
	if err := b.client.PublishJSON(mqtt.Topics{}.ProfileState(), state, b.qos, true); err != nil {
		return fmt.Errorf("publishing profile: %w", err)
	}
	return nil
}

// onMessage is the subscription handler. Failures stay inside the bridge.
func (b *Bridge) onMessage(topic string, payload []byte) error {
	if err := b.handleCommand(topic, payload); err != nil {
		b.logger.Warn("bridge command dropped", "topic", topic, "error", err)
		return nil
	}
	b.logger.Debug("bridge command applied", "topic", topic)

	// Push the result straight away rather than waiting for the ticker.
	if _, err := b.PublishChanges(); err != nil {
		b.logger.Warn("bridge publish failed", "error", err)
	}
	return nil
}

func (b *Bridge) handleCommand(topic string, payload []byte) error {
	action, path, ok := mqtt.ParseCommandTopic(topic)
	if !ok {
		return fmt.Errorf("%w: topic %q", ErrInvalidCommand, topic)
	}

	switch action {
	case mqtt.ActionPose:
		return b.applyPose(path, payload)
	case mqtt.ActionInput:
		return b.applyInput(path, payload)
	case mqtt.ActionProfile:
		return b.applyProfile(payload)
	}
	return fmt.Errorf("%w: action %q", ErrInvalidCommand, action)
}

func (b *Bridge) applyPose(devicePath string, payload []byte) error {
	var cmd PoseCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	pose, _, err := b.rig.GetDevicePose(devicePath)
	if err != nil {
		return err
	}
	if cmd.Position != nil {
		pose.Position = *cmd.Position
	}
	if cmd.Orientation != nil {
		pose.Orientation = *cmd.Orientation
	}
	active := true
	if cmd.Active != nil {
		active = *cmd.Active
	}
	return b.rig.SetDevicePose(devicePath, pose, active)
}

func (b *Bridge) applyInput(binding string, payload []byte) error {
	devicePath, componentPath, ok := device.SplitBindingPath(binding)
	if !ok {
		return fmt.Errorf("%w: %q", device.ErrInvalidBindingPath, binding)
	}

	var cmd InputCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	raw, err := cmd.raw()
	if err != nil {
		return err
	}

	kind, err := b.rig.ComponentKind(devicePath, componentPath)
	if err != nil {
		return err
	}
	v, err := device.Coerce(kind, raw)
	if err != nil {
		return err
	}
	return b.rig.SetInputState(devicePath, componentPath, v)
}

func (b *Bridge) applyProfile(payload []byte) error {
	var cmd ProfileCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if cmd.Device == "" {
		return fmt.Errorf("%w: device is required", ErrInvalidCommand)
	}
	p, err := b.rig.SwitchProfile(cmd.Device)
	if err != nil {
		return err
	}
	b.logger.Info("bridge switched profile", "profile", p.Name)
	return nil
}
