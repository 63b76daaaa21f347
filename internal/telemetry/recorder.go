package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/profile"
)

// Measurement names.
const (
	MeasurementPose  = "device_pose"
	MeasurementInput = "input_state"
)

// PointWriter accepts points for asynchronous delivery.
// *influxdb.Client satisfies it.
type PointWriter interface {
	WritePoint(p *write.Point)
}

// Source provides a consistent copy of the rig. *device.Engine satisfies it.
type Source interface {
	Capture() (string, []device.DeviceState, error)
}

// Logger is the logging interface used by the Recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Recorder samples the rig at a fixed interval and writes one pose point
// per device and one input point per component.
type Recorder struct {
	src      Source
	out      PointWriter
	interval time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	logger Logger
}

// NewRecorder creates a recorder. interval must be positive for Run.
func NewRecorder(src Source, out PointWriter, interval time.Duration) *Recorder {
	return &Recorder{
		src:      src,
		out:      out,
		interval: interval,
		now:      time.Now,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the recorder.
func (r *Recorder) SetLogger(logger Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

func (r *Recorder) log() Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}

// RecordOnce takes one sample and returns how many points were written.
// An engine with no profile bound writes nothing and is not an error.
func (r *Recorder) RecordOnce() (int, error) {
	name, devices, err := r.src.Capture()
	if errors.Is(err, device.ErrNotInitialized) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sampling rig: %w", err)
	}

	ts := r.now()
	n := 0
	for i := range devices {
		r.out.WritePoint(posePoint(name, &devices[i], ts))
		n++
		for _, c := range devices[i].Components {
			r.out.WritePoint(inputPoint(name, devices[i].Path, c, ts))
			n++
		}
	}
	return n, nil
}

// Run samples every interval until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("telemetry: interval must be positive, got %v", r.interval)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := r.RecordOnce()
			if err != nil {
				r.log().Warn("telemetry sample failed", "error", err)
				continue
			}
			r.log().Debug("telemetry sample written", "points", n)
		}
	}
}

func posePoint(profileName string, d *device.DeviceState, ts time.Time) *write.Point {
	pos, rot := d.Pose.Position, d.Pose.Orientation
	return write.NewPoint(MeasurementPose,
		map[string]string{
			"profile": profileName,
			"device":  d.Path,
			"role":    d.Role,
		},
		map[string]any{
			"px":     float64(pos.X),
			"py":     float64(pos.Y),
			"pz":     float64(pos.Z),
			"qx":     float64(rot.X),
			"qy":     float64(rot.Y),
			"qz":     float64(rot.Z),
			"qw":     float64(rot.W),
			"active": d.Active,
		},
		ts)
}

func inputPoint(profileName, devicePath string, c device.ComponentState, ts time.Time) *write.Point {
	fields := make(map[string]any, 2)
	switch c.Kind {
	case profile.KindBoolean:
		b, _ := c.Value.Bool()
		fields["value"] = b
	case profile.KindFloat:
		f, _ := c.Value.Float()
		fields["value"] = float64(f)
	case profile.KindVec2:
		v, _ := c.Value.Vec2()
		fields["x"] = float64(v.X)
		fields["y"] = float64(v.Y)
	}
	return write.NewPoint(MeasurementInput,
		map[string]string{
			"profile":   profileName,
			"device":    devicePath,
			"component": c.Path,
			"kind":      c.Kind.String(),
		},
		fields,
		ts)
}
