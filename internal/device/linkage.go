package device

import "github.com/nerrad567/oxsim-core/internal/profile"

// propagateFromFloat copies the Float at idx into the axis of the Vec2 it is
// linked to. Components without linkage are left alone.
func (d *runtimeDevice) propagateFromFloat(idx int) {
	c := &d.components[idx]
	if c.Linkage == nil {
		return
	}
	target := d.componentIndex(c.Linkage.Target)
	if target < 0 || d.values[target].kind != profile.KindVec2 {
		return
	}

	v := d.values[target].v
	switch c.Linkage.Axis {
	case profile.AxisX:
		v.X = d.values[idx].f
	case profile.AxisY:
		v.Y = d.values[idx].f
	default:
		return
	}
	d.values[target] = Vec2Value(v)
}

// propagateFromVec2 copies each axis of the Vec2 at idx into every Float on
// the same device that declares linkage to it.
func (d *runtimeDevice) propagateFromVec2(idx int) {
	path := d.components[idx].Path
	v := d.values[idx].v

	for i := range d.components {
		c := &d.components[i]
		if c.Linkage == nil || c.Linkage.Target != path || c.Kind != profile.KindFloat {
			continue
		}
		switch c.Linkage.Axis {
		case profile.AxisX:
			d.values[i] = FloatValue(v.X)
		case profile.AxisY:
			d.values[i] = FloatValue(v.Y)
		}
	}
}

func (d *runtimeDevice) componentIndex(path string) int {
	for i := range d.components {
		if d.components[i].Path == path {
			return i
		}
	}
	return -1
}
