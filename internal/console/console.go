package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/profile"
	"github.com/nerrad567/oxsim-core/internal/snapshot"
)

var (
	// ErrUnknownCommand is returned for an unrecognised first word.
	ErrUnknownCommand = errors.New("console: unknown command")

	// ErrUsage is returned when a command gets the wrong arguments.
	ErrUsage = errors.New("console: usage")

	// ErrNoStore is returned by snapshot commands when no repository is set.
	ErrNoStore = errors.New("console: snapshot store not configured")
)

// Rig is the engine surface the console drives. *device.Engine satisfies it.
type Rig interface {
	snapshot.Rig
	Describe() (*device.ProfileDescription, error)
	Devices() []device.DeviceState
	GetDevicePose(devicePath string) (profile.Pose, bool, error)
	SetDevicePose(devicePath string, pose profile.Pose, active bool) error
	ComponentKind(devicePath, componentPath string) (profile.ComponentKind, error)
	GetInputState(devicePath, componentPath string) (device.Value, error)
	SetInputState(devicePath, componentPath string, v device.Value) error
}

// StatusFunc reports on one subsystem for the status command. detail is
// printed when err is nil.
type StatusFunc func(ctx context.Context) (detail string, err error)

type statusEntry struct {
	name string
	fn   StatusFunc
}

// Console executes text commands against the rig.
type Console struct {
	rig    Rig
	store  snapshot.Repository
	out    io.Writer
	status []statusEntry
}

// New creates a console writing its output to out. store may be nil, in
// which case the snapshot commands report ErrNoStore.
func New(rig Rig, store snapshot.Repository, out io.Writer) *Console {
	return &Console{rig: rig, store: store, out: out}
}

// AddStatus registers a subsystem for the status command. Entries are
// listed in registration order after the rig itself.
func (c *Console) AddStatus(name string, fn StatusFunc) {
	c.status = append(c.status, statusEntry{name: name, fn: fn})
}

type command struct {
	usage string
	help  string
	run   func(c *Console, ctx context.Context, args []string) error
}

// commands is keyed by name; aliases point at the same entry.
var commands map[string]*command

// commandOrder is the order help lists commands in.
var commandOrder = []string{
	"help", "profiles", "profile", "switch", "devices", "pose", "get", "set",
	"save", "snapshots", "restore", "status", "quit",
}

func init() {
	commands = map[string]*command{
		"help":      {"help", "show this list", (*Console).cmdHelp},
		"profiles":  {"profiles", "list built-in profiles", (*Console).cmdProfiles},
		"profile":   {"profile", "describe the active profile", (*Console).cmdProfile},
		"switch":    {"switch <name>", "switch profile (resets every device)", (*Console).cmdSwitch},
		"devices":   {"devices", "show every device pose and active flag", (*Console).cmdDevices},
		"pose":      {"pose <device> [x y z [qx qy qz qw]] [inactive]", "show or set a pose", (*Console).cmdPose},
		"get":       {"get <binding>", "show a component value", (*Console).cmdGet},
		"set":       {"set <binding> <value>", "set a component (true|false|number|x,y)", (*Console).cmdSet},
		"save":      {"save [label]", "save a snapshot", (*Console).cmdSave},
		"snapshots": {"snapshots [limit]", "list saved snapshots", (*Console).cmdSnapshots},
		"restore":   {"restore [id|latest]", "restore a snapshot", (*Console).cmdRestore},
		"status":    {"status", "check the rig and connected services", (*Console).cmdStatus},
		"quit":      {"quit", "leave the console", nil},
	}
	commands["?"] = commands["help"]
	commands["exit"] = commands["quit"]
	commands["q"] = commands["quit"]
}

// Execute runs one command line. quit is true for quit/exit. Empty lines
// do nothing.
func (c *Console) Execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		return false, fmt.Errorf("%w: %s (type 'help' for commands)", ErrUnknownCommand, name)
	}
	if cmd.run == nil {
		return true, nil
	}
	return false, cmd.run(c, ctx, fields[1:])
}

func usage(name string) error {
	return fmt.Errorf("%w: %s", ErrUsage, commands[name].usage)
}

func (c *Console) cmdHelp(context.Context, []string) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(w, "  %s\t%s\n", cmd.usage, cmd.help)
	}
	return w.Flush()
}

func (c *Console) cmdProfiles(context.Context, []string) error {
	active := ""
	if p := c.rig.Profile(); p != nil {
		active = p.Name
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, p := range profile.All() {
		marker := " "
		if p.Name == active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%d devices\n", marker, p.Name, p.DisplayName, len(p.Devices))
	}
	return w.Flush()
}

func (c *Console) cmdProfile(context.Context, []string) error {
	desc, err := c.rig.Describe()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s (%s)\n", desc.DisplayName, desc.Name)
	fmt.Fprintf(c.out, "  manufacturer: %s\n  serial: %s\n  interaction profile: %s\n",
		desc.Manufacturer, desc.Serial, desc.InteractionProfile)

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, d := range desc.Devices {
		fmt.Fprintf(w, "  %s\t%s\t%d components\n", d.Path, d.Role, len(d.Components))
		for _, comp := range d.Components {
			fmt.Fprintf(w, "    %s\t%s\t%s\n", comp.Path, comp.Kind, comp.Description)
		}
	}
	return w.Flush()
}

func (c *Console) cmdSwitch(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("switch")
	}
	p, err := c.rig.SwitchProfile(args[0])
	if err != nil {
		return fmt.Errorf("%w (try 'profiles')", err)
	}
	fmt.Fprintf(c.out, "switched to %s\n", p.DisplayName)
	return nil
}

func (c *Console) cmdDevices(context.Context, []string) error {
	devices := c.rig.Devices()
	if devices == nil {
		return device.ErrNotInitialized
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DEVICE\tROLE\tACTIVE\tPOSITION\tORIENTATION")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n", d.Path, d.Role, d.Active,
			formatVec3(d.Pose.Position), formatQuat(d.Pose.Orientation))
	}
	return w.Flush()
}

func (c *Console) cmdPose(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usage("pose")
	}
	devicePath := args[0]
	args = args[1:]

	active := true
	if n := len(args); n > 0 && strings.EqualFold(args[n-1], "inactive") {
		active = false
		args = args[:n-1]
	}

	if len(args) == 0 && active {
		pose, on, err := c.rig.GetDevicePose(devicePath)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s position %s orientation %s active %v\n",
			devicePath, formatVec3(pose.Position), formatQuat(pose.Orientation), on)
		return nil
	}

	pose, _, err := c.rig.GetDevicePose(devicePath)
	if err != nil {
		return err
	}
	if len(args) != 0 && len(args) != 3 && len(args) != 7 {
		return usage("pose")
	}
	nums, err := parseFloats(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(nums) >= 3 {
		pose.Position = profile.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}
	}
	if len(nums) == 7 {
		pose.Orientation = profile.Quat{X: nums[3], Y: nums[4], Z: nums[5], W: nums[6]}
	}
	if err := c.rig.SetDevicePose(devicePath, pose, active); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s pose set\n", devicePath)
	return nil
}

func (c *Console) cmdGet(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("get")
	}
	devicePath, componentPath, ok := device.SplitBindingPath(args[0])
	if !ok {
		return device.ErrInvalidBindingPath
	}
	v, err := c.rig.GetInputState(devicePath, componentPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s = %s (%s)\n", args[0], v, v.Kind())
	return nil
}

func (c *Console) cmdSet(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usage("set")
	}
	devicePath, componentPath, ok := device.SplitBindingPath(args[0])
	if !ok {
		return device.ErrInvalidBindingPath
	}
	raw, err := parseValue(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	kind, err := c.rig.ComponentKind(devicePath, componentPath)
	if err != nil {
		return err
	}
	v, err := device.Coerce(kind, raw)
	if err != nil {
		return err
	}
	if err := c.rig.SetInputState(devicePath, componentPath, v); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s = %s\n", args[0], v)
	return nil
}

func (c *Console) cmdSave(ctx context.Context, args []string) error {
	if c.store == nil {
		return ErrNoStore
	}
	s, err := snapshot.Capture(c.rig, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, s); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "saved %s (%s)\n", s.ID, s.Profile)
	return nil
}

func (c *Console) cmdSnapshots(ctx context.Context, args []string) error {
	if c.store == nil {
		return ErrNoStore
	}
	limit := 0
	if len(args) > 1 {
		return usage("snapshots")
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return usage("snapshots")
		}
		limit = n
	}

	list, err := c.store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "no snapshots")
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tCREATED\tLABEL")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Profile, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Label)
	}
	return w.Flush()
}

func (c *Console) cmdRestore(ctx context.Context, args []string) error {
	if c.store == nil {
		return ErrNoStore
	}
	if len(args) > 1 {
		return usage("restore")
	}

	var (
		s   *snapshot.Snapshot
		err error
	)
	if len(args) == 0 || args[0] == "latest" {
		s, err = c.store.Latest(ctx)
	} else {
		s, err = c.store.Get(ctx, args[0])
	}
	if err != nil {
		return err
	}
	if err := snapshot.Restore(c.rig, s); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "restored %s (%s)\n", s.ID, s.Profile)
	return nil
}

func (c *Console) cmdStatus(ctx context.Context, _ []string) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBSYSTEM\tSTATUS\tDETAIL")

	if p := c.rig.Profile(); p != nil {
		fmt.Fprintf(w, "rig\tok\t%s, %d devices\n", p.Name, len(p.Devices))
	} else {
		fmt.Fprintf(w, "rig\tfail\t%v\n", device.ErrNotInitialized)
	}

	for _, st := range c.status {
		detail, err := st.fn(ctx)
		if err != nil {
			fmt.Fprintf(w, "%s\tfail\t%v\n", st.name, err)
			continue
		}
		fmt.Fprintf(w, "%s\tok\t%s\n", st.name, detail)
	}
	return w.Flush()
}

// parseValue reads a set argument: true/false/on/off, a number, or "x,y".
func parseValue(s string) (any, error) {
	switch strings.ToLower(s) {
	case "true", "on", "pressed":
		return true, nil
	case "false", "off", "released":
		return false, nil
	}
	if xs, ys, ok := strings.Cut(s, ","); ok {
		nums, err := parseFloats([]string{xs, ys})
		if err != nil {
			return nil, err
		}
		return device.Vec2{X: nums[0], Y: nums[1]}, nil
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q", s)
	}
	return f, nil
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func formatVec3(v profile.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func formatQuat(q profile.Quat) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", q.X, q.Y, q.Z, q.W)
}
