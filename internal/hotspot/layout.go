package hotspot

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

const (
	halfPi  = float32(gomath.Pi / 2)
	sixthPi = float32(gomath.Pi / 6)
)

// room is the design-time layout of the therapy room. Proxies are sized to
// the visible model parts; focused poses sit in front of each surface.
var room = []struct {
	id       string
	scale    math.Vec3
	position math.Vec3
	axis     math.Axis
	angle    float32
	pose     math.Vec3 // offset from position
}{
	{"folder", math.Vec3{X: 0.7, Y: 0.1, Z: 0.85}, math.Vec3{X: -2.9, Y: 0.3, Z: -2.55}, math.AxisNone, 0, math.Vec3{Y: 1}},
	{"monitor", math.Vec3{X: 1.9, Y: 0.1, Z: 1}, math.Vec3{X: -1.5, Y: 1.25, Z: -3}, math.AxisX, halfPi, math.Vec3{Z: 1}},
	{"book", math.Vec3{X: 0.85, Y: 0.3, Z: 1.1}, math.Vec3{X: 0.45, Y: 0.35, Z: -2.6}, math.AxisNone, 0, math.Vec3{Y: 1}},
	{"smartScreen", math.Vec3{X: 1, Y: 0.1, Z: 1}, math.Vec3{X: 2.77, Y: 0.6, Z: -0.65}, math.AxisZ, sixthPi, math.Vec3{X: -0.75, Y: 0.75}},
	{"picture1", math.Vec3{X: 1.6, Y: 0.1, Z: 1.6}, math.Vec3{X: -1.65, Y: 2.95, Z: -3.3}, math.AxisX, halfPi, math.Vec3{Z: 1.5}},
	{"picture2", math.Vec3{X: 1.6, Y: 0.1, Z: 1.6}, math.Vec3{X: 1.05, Y: 2.95, Z: -3.3}, math.AxisX, halfPi, math.Vec3{Z: 1.5}},
	{"picture3", math.Vec3{X: 1.6, Y: 0.1, Z: 1.6}, math.Vec3{X: 3.3, Y: 2.95, Z: -1.45}, math.AxisZ, halfPi, math.Vec3{X: -1.5}},
	{"picture4", math.Vec3{X: 1.6, Y: 0.1, Z: 2.5}, math.Vec3{X: 3.3, Y: 2.95, Z: 1.62}, math.AxisZ, halfPi, math.Vec3{X: -1.5}},
}

// titleVolume encloses the extruded "VR Therapy" text on the floor.
var titleVolume = OrientedBox{
	Scale:    math.Vec3{X: 2.3, Y: 0.35, Z: 0.2},
	Position: math.Vec3{X: -2.1, Y: -0.625, Z: 3.1},
}

// RoomLayout builds the registry for the built-in room.
func RoomLayout() (*Registry, error) {
	r := NewRegistry()
	for _, e := range room {
		box := OrientedBox{Scale: e.scale, Position: e.position, Axis: e.axis, Angle: e.angle}
		if err := r.Register(e.id, box, e.position.Add(e.pose), e.position); err != nil {
			return nil, err
		}
	}
	if err := r.SetTitle(titleVolume); err != nil {
		return nil, err
	}
	return r, nil
}

// FromConfig builds a registry from configured entries. An entry with id
// "title" becomes the reset volume; when none is given the built-in title
// volume is used.
func FromConfig(entries []config.HotspotConfig) (*Registry, error) {
	r := NewRegistry()
	for _, e := range entries {
		axis, err := ParseAxis(e.Axis)
		if err != nil {
			return nil, fmt.Errorf("hotspot %q: %w", e.ID, err)
		}
		box := OrientedBox{
			Scale:    vec(e.Scale),
			Position: vec(e.Position),
			Axis:     axis,
			Angle:    e.AngleDeg * float32(gomath.Pi) / 180,
		}
		if e.ID == TitleID {
			err = r.SetTitle(box)
		} else {
			err = r.Register(e.ID, box, vec(e.FocusedPose), vec(e.FocusedLookAt))
		}
		if err != nil {
			return nil, err
		}
	}
	if _, ok := r.Title(); !ok {
		if err := r.SetTitle(titleVolume); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ToConfig converts a registry back into config entries, title last, so the
// effective layout can be written out and edited.
func ToConfig(r *Registry) []config.HotspotConfig {
	pickables := r.Pickables()
	out := make([]config.HotspotConfig, 0, len(pickables))
	for _, h := range pickables {
		e := config.HotspotConfig{
			ID:       h.ID,
			Scale:    h.Volume.Scale.Array(),
			Position: h.Volume.Position.Array(),
		}
		if h.Volume.Axis != math.AxisNone {
			e.Axis = h.Volume.Axis.String()
			e.AngleDeg = h.Volume.Angle * 180 / float32(gomath.Pi)
		}
		if !h.IsTitle() {
			e.FocusedPose = h.FocusedPose.Array()
			e.FocusedLookAt = h.FocusedLookAt.Array()
		}
		out = append(out, e)
	}
	return out
}

// ParseAxis converts "x", "y", "z" or "" to an axis.
func ParseAxis(s string) (math.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return math.AxisNone, nil
	case "x":
		return math.AxisX, nil
	case "y":
		return math.AxisY, nil
	case "z":
		return math.AxisZ, nil
	}
	return math.AxisNone, fmt.Errorf("%w: unknown axis %q", ErrInvalidVolume, s)
}

func vec(v config.Vec3) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
