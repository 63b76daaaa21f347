package profile

import "sort"

// Device paths shared across profiles.
const (
	PathHead      = "/user/head"
	PathHandLeft  = "/user/hand/left"
	PathHandRight = "/user/hand/right"

	pathTrackerWaist     = "/user/vive_tracker_htcx/role/waist"
	pathTrackerLeftFoot  = "/user/vive_tracker_htcx/role/left_foot"
	pathTrackerRightFoot = "/user/vive_tracker_htcx/role/right_foot"
)

// Default poses, in metres from the play-space origin.
var (
	headPose      = Pose{Position: Vec3{X: 0, Y: 1.6, Z: 0}, Orientation: IdentityQuat}
	leftHandPose  = Pose{Position: Vec3{X: -0.2, Y: 1.4, Z: -0.3}, Orientation: IdentityQuat}
	rightHandPose = Pose{Position: Vec3{X: 0.2, Y: 1.4, Z: -0.3}, Orientation: IdentityQuat}
)

func boolean(path, desc string) ComponentTemplate {
	return ComponentTemplate{Path: path, Kind: KindBoolean, Description: desc}
}

func scalar(path, desc string) ComponentTemplate {
	return ComponentTemplate{Path: path, Kind: KindFloat, Description: desc}
}

func only(hand string, c ComponentTemplate) ComponentTemplate {
	c.HandRestriction = hand
	return c
}

// stick returns a Vec2 component followed by its linked X and Y axes.
func stick(path, desc string) []ComponentTemplate {
	return []ComponentTemplate{
		{Path: path, Kind: KindVec2, Description: desc},
		{Path: path + "/x", Kind: KindFloat, Description: desc + " X", Linkage: &Linkage{Target: path, Axis: AxisX}},
		{Path: path + "/y", Kind: KindFloat, Description: desc + " Y", Linkage: &Linkage{Target: path, Axis: AxisY}},
	}
}

func components(groups ...[]ComponentTemplate) []ComponentTemplate {
	var out []ComponentTemplate
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func touchControllerComponents() []ComponentTemplate {
	return components(
		[]ComponentTemplate{
			only(PathHandLeft, boolean("/input/x/click", "X button")),
			only(PathHandLeft, boolean("/input/x/touch", "X button touch")),
			only(PathHandLeft, boolean("/input/y/click", "Y button")),
			only(PathHandLeft, boolean("/input/y/touch", "Y button touch")),
			only(PathHandLeft, boolean("/input/menu/click", "Menu button")),
			only(PathHandRight, boolean("/input/a/click", "A button")),
			only(PathHandRight, boolean("/input/a/touch", "A button touch")),
			only(PathHandRight, boolean("/input/b/click", "B button")),
			only(PathHandRight, boolean("/input/b/touch", "B button touch")),
			only(PathHandRight, boolean("/input/system/click", "System button")),
			scalar("/input/squeeze/value", "Grip"),
			scalar("/input/trigger/value", "Trigger"),
			boolean("/input/trigger/touch", "Trigger touch"),
		},
		stick("/input/thumbstick", "Thumbstick"),
		[]ComponentTemplate{
			boolean("/input/thumbstick/click", "Thumbstick click"),
			boolean("/input/thumbstick/touch", "Thumbstick touch"),
			boolean("/input/thumbrest/touch", "Thumbrest touch"),
		},
	)
}

func viveControllerComponents() []ComponentTemplate {
	return components(
		[]ComponentTemplate{
			boolean("/input/system/click", "System button"),
			boolean("/input/squeeze/click", "Grip button"),
			boolean("/input/menu/click", "Menu button"),
			boolean("/input/trigger/click", "Trigger click"),
			scalar("/input/trigger/value", "Trigger"),
		},
		stick("/input/trackpad", "Trackpad"),
		[]ComponentTemplate{
			boolean("/input/trackpad/click", "Trackpad click"),
			boolean("/input/trackpad/touch", "Trackpad touch"),
		},
	)
}

func indexControllerComponents() []ComponentTemplate {
	return components(
		[]ComponentTemplate{
			boolean("/input/system/click", "System button"),
			boolean("/input/system/touch", "System button touch"),
			boolean("/input/a/click", "A button"),
			boolean("/input/a/touch", "A button touch"),
			boolean("/input/b/click", "B button"),
			boolean("/input/b/touch", "B button touch"),
			scalar("/input/squeeze/value", "Grip"),
			scalar("/input/squeeze/force", "Grip force"),
			boolean("/input/trigger/click", "Trigger click"),
			scalar("/input/trigger/value", "Trigger"),
			boolean("/input/trigger/touch", "Trigger touch"),
		},
		stick("/input/thumbstick", "Thumbstick"),
		[]ComponentTemplate{
			boolean("/input/thumbstick/click", "Thumbstick click"),
			boolean("/input/thumbstick/touch", "Thumbstick touch"),
		},
		stick("/input/trackpad", "Trackpad"),
		[]ComponentTemplate{
			scalar("/input/trackpad/force", "Trackpad force"),
			boolean("/input/trackpad/touch", "Trackpad touch"),
		},
	)
}

func trackerComponents() []ComponentTemplate {
	return components(
		[]ComponentTemplate{
			boolean("/input/menu/click", "Menu pogo pin"),
			boolean("/input/trigger/click", "Trigger pogo pin"),
			scalar("/input/trigger/value", "Trigger"),
			boolean("/input/squeeze/click", "Grip pogo pin"),
		},
		stick("/input/trackpad", "Trackpad"),
		[]ComponentTemplate{
			boolean("/input/trackpad/click", "Trackpad click"),
			boolean("/input/trackpad/touch", "Trackpad touch"),
		},
	)
}

// hmdDevices builds the head plus both hands, sharing one component list per
// controller model. Hand restrictions trim each hand's view of the list.
func hmdDevices(controller func() []ComponentTemplate) []DeviceTemplate {
	return []DeviceTemplate{
		{Path: PathHead, Role: "head", AlwaysActive: true, DefaultPose: headPose},
		{Path: PathHandLeft, Role: "left_hand", DefaultPose: leftHandPose, Components: controller()},
		{Path: PathHandRight, Role: "right_hand", DefaultPose: rightHandPose, Components: controller()},
	}
}

var catalog = []*Profile{
	{
		Type:         TypeOculusQuest2,
		Name:         "oculus_quest_2",
		DisplayName:  "Meta Quest 2 (Simulated)",
		Manufacturer: "Meta Platforms",
		SerialPrefix: "QUEST2-SIM",
		VendorID:     0x2833,
		ProductID:    0x0186,
		Display: Display{
			Width: 1832, Height: 1920, RecommendedWidth: 1832, RecommendedHeight: 1920,
			RefreshRate: 90,
			FOV:         FieldOfView{Left: -0.785398, Right: 0.785398, Up: 0.872665, Down: -0.872665},
		},
		HasPositionTracking:    true,
		HasOrientationTracking: true,
		HasControllers:         true,
		InteractionProfile:     "/interaction_profiles/oculus/touch_controller",
		Devices:                hmdDevices(touchControllerComponents),
	},
	{
		Type:         TypeOculusQuest3,
		Name:         "oculus_quest_3",
		DisplayName:  "Meta Quest 3 (Simulated)",
		Manufacturer: "Meta Platforms",
		SerialPrefix: "QUEST3-SIM",
		VendorID:     0x2833,
		ProductID:    0x0200,
		Display: Display{
			Width: 2064, Height: 2208, RecommendedWidth: 2064, RecommendedHeight: 2208,
			RefreshRate: 120,
			FOV:         FieldOfView{Left: -0.872665, Right: 0.872665, Up: 0.959931, Down: -0.959931},
		},
		HasPositionTracking:    true,
		HasOrientationTracking: true,
		HasControllers:         true,
		InteractionProfile:     "/interaction_profiles/oculus/touch_controller",
		Devices:                hmdDevices(touchControllerComponents),
	},
	{
		Type:         TypeHTCVive,
		Name:         "htc_vive",
		DisplayName:  "HTC Vive (Simulated)",
		Manufacturer: "HTC Corporation",
		SerialPrefix: "VIVE-SIM",
		VendorID:     0x0BB4,
		ProductID:    0x2C87,
		Display: Display{
			Width: 1080, Height: 1200, RecommendedWidth: 1080, RecommendedHeight: 1200,
			RefreshRate: 90,
			FOV:         FieldOfView{Left: -0.785398, Right: 0.785398, Up: 0.872665, Down: -0.872665},
		},
		HasPositionTracking:    true,
		HasOrientationTracking: true,
		HasControllers:         true,
		InteractionProfile:     "/interaction_profiles/htc/vive_controller",
		Devices:                hmdDevices(viveControllerComponents),
	},
	{
		Type:         TypeValveIndex,
		Name:         "valve_index",
		DisplayName:  "Valve Index HMD (Simulated)",
		Manufacturer: "Valve Corporation",
		SerialPrefix: "INDEX-SIM",
		VendorID:     0x28DE,
		ProductID:    0x2012,
		Display: Display{
			Width: 1440, Height: 1600, RecommendedWidth: 1440, RecommendedHeight: 1600,
			RefreshRate: 144,
			FOV:         FieldOfView{Left: -0.959931, Right: 0.959931, Up: 0.959931, Down: -0.959931},
		},
		HasPositionTracking:    true,
		HasOrientationTracking: true,
		HasControllers:         true,
		InteractionProfile:     "/interaction_profiles/valve/index_controller",
		Devices:                hmdDevices(indexControllerComponents),
	},
	{
		Type:                   TypeViveTracker,
		Name:                   "vive_tracker",
		DisplayName:            "HTC Vive Tracker (Simulated)",
		Manufacturer:           "HTC Corporation",
		SerialPrefix:           "TRACKER-SIM",
		VendorID:               0x0BB4,
		ProductID:              0x06A3,
		HasPositionTracking:    true,
		HasOrientationTracking: true,
		InteractionProfile:     "/interaction_profiles/htc/vive_tracker_htcx",
		Devices: []DeviceTemplate{
			{
				Path: pathTrackerWaist, Role: "waist",
				DefaultPose: Pose{Position: Vec3{Y: 1.0}, Orientation: IdentityQuat},
				Components:  trackerComponents(),
			},
			{
				Path: pathTrackerLeftFoot, Role: "left_foot",
				DefaultPose: Pose{Position: Vec3{X: -0.1, Y: 0.1}, Orientation: IdentityQuat},
				Components:  trackerComponents(),
			},
			{
				Path: pathTrackerRightFoot, Role: "right_foot",
				DefaultPose: Pose{Position: Vec3{X: 0.1, Y: 0.1}, Orientation: IdentityQuat},
				Components:  trackerComponents(),
			},
		},
	},
}

var byName = func() map[string]*Profile {
	m := make(map[string]*Profile, len(catalog))
	for _, p := range catalog {
		m[p.Name] = p
	}
	return m
}()

// ByName returns a copy of the profile registered under name.
// The second result is false when no such profile exists.
func ByName(name string) (*Profile, bool) {
	p, ok := byName[name]
	if !ok {
		return nil, false
	}
	return p.DeepCopy(), true
}

// ByType returns a copy of the built-in profile for t, or nil for an
// undeclared type.
func ByType(t Type) *Profile {
	for _, p := range catalog {
		if p.Type == t {
			return p.DeepCopy()
		}
	}
	return nil
}

// Default returns the profile used when configuration names none.
func Default() *Profile {
	return ByType(TypeOculusQuest2)
}

// All returns copies of every built-in profile ordered by type.
func All() []*Profile {
	out := make([]*Profile, len(catalog))
	for i, p := range catalog {
		out[i] = p.DeepCopy()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Names returns the lookup names of every built-in profile ordered by type.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}
