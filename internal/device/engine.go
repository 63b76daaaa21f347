package device

import (
	"sync"

	"github.com/nerrad567/oxsim-core/internal/profile"
)

// Logger defines the logging interface used by the Engine.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// runtimeDevice is the mutable state of one device of the active profile.
type runtimeDevice struct {
	template   *profile.DeviceTemplate
	components []profile.ComponentTemplate // applicable components, ordinal order
	values     []Value                     // 1:1 with components
	pose       profile.Pose
	active     bool
}

func newRuntimeDevice(t *profile.DeviceTemplate) runtimeDevice {
	comps := t.ApplicableComponents()
	values := make([]Value, len(comps))
	for i := range comps {
		values[i] = ZeroValue(comps[i].Kind)
	}
	return runtimeDevice{
		template:   t,
		components: comps,
		values:     values,
		pose:       t.DefaultPose,
		active:     t.AlwaysActive,
	}
}

func (d *runtimeDevice) snapshot() DeviceState {
	comps := make([]ComponentState, len(d.components))
	for i := range d.components {
		comps[i] = ComponentState{
			Path:  d.components[i].Path,
			Kind:  d.components[i].Kind,
			Value: d.values[i],
		}
	}
	return DeviceState{
		Path:       d.template.Path,
		Role:       d.template.Role,
		Pose:       d.pose,
		Active:     d.active,
		Components: comps,
	}
}

// Engine owns the runtime state of the simulated rig: one record per device
// of the active profile, holding its pose, active flag and component values.
//
// A single mutex is held for the full duration of every method, so each call
// is atomic with respect to every other. Sequences of calls are not.
//
// The zero value is not usable; create engines with NewEngine.
type Engine struct {
	mu      sync.Mutex
	profile *profile.Profile
	devices []runtimeDevice
	logger  Logger
}

// NewEngine creates an engine with no profile bound.
func NewEngine() *Engine {
	return &Engine{logger: noopLogger{}}
}

// SetLogger sets the logger for the engine. A nil logger discards output.
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// Initialize binds p and builds its runtime devices at their defaults:
// poses from the templates, components false, 0 or {0,0}.
// The engine binds its own copy of p, so later changes to p do not reach it.
// Returns ErrNullProfile for nil and a profile.ErrInvalidProfile error for a
// profile that fails profile.Validate, leaving state untouched either way.
func (e *Engine) Initialize(p *profile.Profile) error {
	if p == nil {
		return ErrNullProfile
	}
	if err := profile.Validate(p); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.bind(p)
	e.logger.Info("device engine initialized", "profile", p.Name, "devices", len(e.devices))
	return nil
}

// SwitchDevice replaces the active profile with p and resets every device.
// Teardown and rebuild happen under one lock acquisition, so no caller can
// observe an engine without devices.
// p is validated and copied as in Initialize.
func (e *Engine) SwitchDevice(p *profile.Profile) error {
	if p == nil {
		return ErrNullProfile
	}
	if err := profile.Validate(p); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	previous := ""
	if e.profile != nil {
		previous = e.profile.Name
	}
	e.unbind()
	e.bind(p)
	e.logger.Info("device profile switched", "from", previous, "to", p.Name)
	return nil
}

// SwitchProfile looks up name in the profile catalogue and switches to it.
// Unknown names return ErrProfileNotFound and leave the current state as is.
func (e *Engine) SwitchProfile(name string) (*profile.Profile, error) {
	p, ok := profile.ByName(name)
	if !ok {
		return nil, ErrProfileNotFound
	}
	if err := e.SwitchDevice(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Shutdown releases the bound profile. The engine is inert until the next
// Initialize.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile == nil {
		return
	}
	name := e.profile.Name
	e.unbind()
	e.logger.Info("device engine shut down", "profile", name)
}

// Profile returns a copy of the active profile, or nil when the engine is
// inert.
func (e *Engine) Profile() *profile.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.DeepCopy()
}

// bind installs a private copy of p. Runtime devices point into that copy.
func (e *Engine) bind(p *profile.Profile) {
	p = p.DeepCopy()
	devices := make([]runtimeDevice, len(p.Devices))
	for i := range p.Devices {
		devices[i] = newRuntimeDevice(&p.Devices[i])
	}
	e.profile = p
	e.devices = devices
}

func (e *Engine) unbind() {
	e.profile = nil
	e.devices = nil
}

// device resolves a device path. Caller must hold e.mu.
func (e *Engine) device(devicePath string) (*runtimeDevice, error) {
	i, _, err := FindDevice(e.profile, devicePath)
	if err != nil {
		return nil, err
	}
	return &e.devices[i], nil
}

// component resolves a component and checks its kind. Caller must hold e.mu.
func (e *Engine) component(devicePath, componentPath string, kind profile.ComponentKind) (*runtimeDevice, int, error) {
	addr, err := Resolve(e.profile, devicePath, componentPath)
	if err != nil {
		return nil, -1, err
	}
	if addr.Kind != kind {
		return nil, -1, ErrComponentKindMismatch
	}
	return &e.devices[addr.Device], addr.Component, nil
}

// GetDevicePose returns the pose and active flag of a device.
func (e *Engine) GetDevicePose(devicePath string) (profile.Pose, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.device(devicePath)
	if err != nil {
		return profile.Pose{}, false, err
	}
	return d.pose, d.active, nil
}

// SetDevicePose stores a pose and active flag. Always-active devices stay
// active whatever the active argument says.
func (e *Engine) SetDevicePose(devicePath string, pose profile.Pose, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.device(devicePath)
	if err != nil {
		return err
	}
	d.pose = pose
	d.active = active || d.template.AlwaysActive
	return nil
}

// GetInputStateBoolean returns the value of a Boolean component.
func (e *Engine) GetInputStateBoolean(devicePath, componentPath string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, profile.KindBoolean)
	if err != nil {
		return false, err
	}
	return d.values[i].b, nil
}

// GetInputStateFloat returns the value of a Float component.
func (e *Engine) GetInputStateFloat(devicePath, componentPath string) (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, profile.KindFloat)
	if err != nil {
		return 0, err
	}
	return d.values[i].f, nil
}

// GetInputStateVec2 returns the value of a Vec2 component.
func (e *Engine) GetInputStateVec2(devicePath, componentPath string) (Vec2, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, profile.KindVec2)
	if err != nil {
		return Vec2{}, err
	}
	return d.values[i].v, nil
}

// SetInputStateBoolean writes a Boolean component.
func (e *Engine) SetInputStateBoolean(devicePath, componentPath string, value bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, profile.KindBoolean)
	if err != nil {
		return err
	}
	d.values[i] = BoolValue(value)
	return nil
}

// SetInputStateFloat writes a Float component. No clamping is applied.
// When the component is linked, the value is copied into its Vec2 axis.
func (e *Engine) SetInputStateFloat(devicePath, componentPath string, value float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, profile.KindFloat)
	if err != nil {
		return err
	}
	d.values[i] = FloatValue(value)
	d.propagateFromFloat(i)
	return nil
}

// SetInputStateVec2 writes a Vec2 component and updates every Float axis
// linked to it.
func (e *Engine) SetInputStateVec2(devicePath, componentPath string, value Vec2) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, profile.KindVec2)
	if err != nil {
		return err
	}
	d.values[i] = Vec2Value(value)
	d.propagateFromVec2(i)
	return nil
}

// GetInputState returns the value of any component, tagged with its kind.
func (e *Engine) GetInputState(devicePath, componentPath string) (Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	addr, err := Resolve(e.profile, devicePath, componentPath)
	if err != nil {
		return Value{}, err
	}
	return e.devices[addr.Device].values[addr.Component], nil
}

// SetInputState writes v into a component of the same kind, propagating
// linkage as the typed setters do. It never converts between kinds.
func (e *Engine) SetInputState(devicePath, componentPath string, v Value) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, i, err := e.component(devicePath, componentPath, v.Kind())
	if err != nil {
		return err
	}
	d.values[i] = v
	switch v.Kind() {
	case profile.KindFloat:
		d.propagateFromFloat(i)
	case profile.KindVec2:
		d.propagateFromVec2(i)
	}
	return nil
}

// ComponentKind returns the declared kind of a component so callers can pick
// the matching typed accessor.
func (e *Engine) ComponentKind(devicePath, componentPath string) (profile.ComponentKind, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	addr, err := Resolve(e.profile, devicePath, componentPath)
	if err != nil {
		return 0, err
	}
	return addr.Kind, nil
}

// Devices returns a copy of every runtime device in profile order.
// An inert engine returns nil.
func (e *Engine) Devices() []DeviceState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile == nil {
		return nil
	}
	out := make([]DeviceState, len(e.devices))
	for i := range e.devices {
		out[i] = e.devices[i].snapshot()
	}
	return out
}

// Capture returns the active profile name together with a copy of every
// runtime device, both taken under the same lock acquisition.
func (e *Engine) Capture() (string, []DeviceState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile == nil {
		return "", nil, ErrNotInitialized
	}
	out := make([]DeviceState, len(e.devices))
	for i := range e.devices {
		out[i] = e.devices[i].snapshot()
	}
	return e.profile.Name, out, nil
}

// Describe returns the active profile's devices and the components each
// device exposes.
func (e *Engine) Describe() (*ProfileDescription, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.profile
	if p == nil {
		return nil, ErrNotInitialized
	}

	desc := &ProfileDescription{
		Name:               p.Name,
		DisplayName:        p.DisplayName,
		Manufacturer:       p.Manufacturer,
		Serial:             p.Serial(),
		InteractionProfile: p.InteractionProfile,
		Devices:            make([]DeviceDescription, len(e.devices)),
	}
	for i := range e.devices {
		d := &e.devices[i]
		comps := make([]profile.ComponentTemplate, len(d.components))
		for j, c := range d.components {
			if c.Linkage != nil {
				l := *c.Linkage
				c.Linkage = &l
			}
			comps[j] = c
		}
		desc.Devices[i] = DeviceDescription{
			Path:         d.template.Path,
			Role:         d.template.Role,
			AlwaysActive: d.template.AlwaysActive,
			Components:   comps,
		}
	}
	return desc, nil
}

// Restore applies previously captured device states in one critical section.
// States for unknown devices or components, and values whose kind no longer
// matches, are skipped. Linked Float axes are refreshed from their Vec2
// targets afterwards so captured data cannot break their agreement.
func (e *Engine) Restore(states []DeviceState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile == nil {
		return ErrNotInitialized
	}

	skipped := 0
	for _, s := range states {
		d, err := e.device(s.Path)
		if err != nil {
			skipped++
			continue
		}
		d.pose = s.Pose
		d.active = s.Active || d.template.AlwaysActive

		for _, cs := range s.Components {
			i := d.componentIndex(cs.Path)
			if i < 0 || d.components[i].Kind != cs.Value.Kind() {
				skipped++
				continue
			}
			d.values[i] = cs.Value
		}
		for i := range d.components {
			if d.components[i].Kind == profile.KindVec2 {
				d.propagateFromVec2(i)
			}
		}
	}

	if skipped > 0 {
		e.logger.Warn("device restore skipped entries", "profile", e.profile.Name, "skipped", skipped)
	}
	return nil
}
