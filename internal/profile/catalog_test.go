package profile

import (
	"errors"
	"reflect"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name     string
		wantOK   bool
		wantType Type
	}{
		{"oculus_quest_2", true, TypeOculusQuest2},
		{"oculus_quest_3", true, TypeOculusQuest3},
		{"htc_vive", true, TypeHTCVive},
		{"valve_index", true, TypeValveIndex},
		{"vive_tracker", true, TypeViveTracker},
		{"", false, 0},
		{"Oculus_Quest_2", false, 0},
		{"pimax", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ByName(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ByName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if !ok {
				if p != nil {
					t.Errorf("ByName(%q) = %v, want nil", tt.name, p)
				}
				return
			}
			if p.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", p.Type, tt.wantType)
			}
		})
	}
}

func TestByType(t *testing.T) {
	for _, typ := range []Type{TypeOculusQuest2, TypeOculusQuest3, TypeHTCVive, TypeValveIndex, TypeViveTracker} {
		p := ByType(typ)
		if p == nil {
			t.Fatalf("ByType(%d) = nil", typ)
		}
		if p.Type != typ {
			t.Errorf("ByType(%d).Type = %d", typ, p.Type)
		}
	}

	if p := ByType(Type(99)); p != nil {
		t.Errorf("ByType(99) = %v, want nil", p.Name)
	}
}

func TestDefault(t *testing.T) {
	if got := Default().Name; got != "oculus_quest_2" {
		t.Errorf("Default().Name = %q, want oculus_quest_2", got)
	}
}

func TestNames(t *testing.T) {
	want := []string{"oculus_quest_2", "oculus_quest_3", "htc_vive", "valve_index", "vive_tracker"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCatalog_AllValid(t *testing.T) {
	for _, p := range All() {
		if err := Validate(p); err != nil {
			t.Errorf("Validate(%s) error = %v", p.Name, err)
		}
	}
}

func TestCatalog_HeadAlwaysActive(t *testing.T) {
	for _, p := range All() {
		for _, d := range p.Devices {
			if d.Path == PathHead && !d.AlwaysActive {
				t.Errorf("%s: /user/head is not always active", p.Name)
			}
		}
	}
}

func TestCatalog_Quest2RightHand(t *testing.T) {
	p, _ := ByName("oculus_quest_2")

	var right *DeviceTemplate
	for i := range p.Devices {
		if p.Devices[i].Path == PathHandRight {
			right = &p.Devices[i]
		}
	}
	if right == nil {
		t.Fatal("quest 2 has no right hand")
	}

	kinds := map[string]ComponentKind{}
	links := map[string]*Linkage{}
	for _, c := range right.ApplicableComponents() {
		kinds[c.Path] = c.Kind
		links[c.Path] = c.Linkage
	}

	if kinds["/input/trigger/value"] != KindFloat {
		t.Error("/input/trigger/value should be float")
	}
	if kinds["/input/thumbstick"] != KindVec2 {
		t.Error("/input/thumbstick should be vec2")
	}
	if l := links["/input/thumbstick/x"]; l == nil || l.Target != "/input/thumbstick" || l.Axis != AxisX {
		t.Errorf("/input/thumbstick/x linkage = %+v", l)
	}
	if l := links["/input/thumbstick/y"]; l == nil || l.Target != "/input/thumbstick" || l.Axis != AxisY {
		t.Errorf("/input/thumbstick/y linkage = %+v", l)
	}
	if _, ok := kinds["/input/a/click"]; !ok {
		t.Error("right hand should expose /input/a/click")
	}
	if _, ok := kinds["/input/x/click"]; ok {
		t.Error("right hand should not expose /input/x/click")
	}
}

func TestSerial(t *testing.T) {
	p, _ := ByName("htc_vive")
	if got := p.Serial(); got != "VIVE-SIM-12345" {
		t.Errorf("Serial() = %q", got)
	}
}

func TestComponentKind_String(t *testing.T) {
	for _, k := range []ComponentKind{KindBoolean, KindFloat, KindVec2} {
		parsed, ok := ParseKind(k.String())
		if !ok || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), parsed, ok)
		}
	}
	if _, ok := ParseKind("double"); ok {
		t.Error("ParseKind(double) should fail")
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Profile {
		return &Profile{
			Name: "test",
			Devices: []DeviceTemplate{{
				Path: "/user/hand/left",
				Components: []ComponentTemplate{
					{Path: "/input/stick", Kind: KindVec2},
					{Path: "/input/stick/x", Kind: KindFloat, Linkage: &Linkage{Target: "/input/stick", Axis: AxisX}},
				},
			}},
		}
	}

	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"no name", func(p *Profile) { p.Name = "" }},
		{"no devices", func(p *Profile) { p.Devices = nil }},
		{"bad device path", func(p *Profile) { p.Devices[0].Path = "/hand/left" }},
		{"duplicate device", func(p *Profile) { p.Devices = append(p.Devices, p.Devices[0]) }},
		{"bad component path", func(p *Profile) { p.Devices[0].Components[0].Path = "/output/haptic" }},
		{"duplicate component", func(p *Profile) {
			p.Devices[0].Components = append(p.Devices[0].Components, ComponentTemplate{Path: "/input/stick", Kind: KindBoolean})
		}},
		{"linkage on boolean", func(p *Profile) { p.Devices[0].Components[1].Kind = KindBoolean }},
		{"linkage without axis", func(p *Profile) { p.Devices[0].Components[1].Linkage.Axis = AxisNone }},
		{"missing target", func(p *Profile) { p.Devices[0].Components[1].Linkage.Target = "/input/pad" }},
		{"target not vec2", func(p *Profile) { p.Devices[0].Components[0].Kind = KindFloat }},
		{"target restricted to other hand", func(p *Profile) {
			p.Devices[0].Components[0].HandRestriction = "/user/hand/right"
		}},
	}

	if err := Validate(base()); err != nil {
		t.Fatalf("base profile invalid: %v", err)
	}
	if err := Validate(nil); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Validate(nil) error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			if err := Validate(p); !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("Validate() error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestLookups_ReturnCopies(t *testing.T) {
	a, _ := ByName("valve_index")
	a.Name = "edited"
	a.Devices[1].Components[0].Path = "/input/edited"
	for i := range a.Devices[1].Components {
		if l := a.Devices[1].Components[i].Linkage; l != nil {
			l.Target = "/input/edited"
		}
	}
	ByType(TypeValveIndex).Devices[0].AlwaysActive = false
	All()[TypeValveIndex].Devices = nil

	b, _ := ByName("valve_index")
	if b.Name != "valve_index" {
		t.Errorf("Name = %q after editing a returned copy", b.Name)
	}
	if b.Devices[1].Components[0].Path == "/input/edited" {
		t.Error("component path shared between lookups")
	}
	if !b.Devices[0].AlwaysActive {
		t.Error("AlwaysActive shared between lookups")
	}
	if err := Validate(b); err != nil {
		t.Errorf("catalogue profile invalid after edits to copies: %v", err)
	}
}

func TestDeepCopy(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.DeepCopy() != nil {
		t.Error("DeepCopy(nil) should be nil")
	}

	p := Default()
	cpy := p.DeepCopy()
	if !reflect.DeepEqual(p, cpy) {
		t.Fatal("DeepCopy() differs from the original")
	}
	cpy.Devices[1].Components[0].Description = "changed"
	if p.Devices[1].Components[0].Description == "changed" {
		t.Error("DeepCopy() shares component slices")
	}
}
