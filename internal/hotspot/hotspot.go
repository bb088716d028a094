// Package hotspot holds the static table of interactive regions in the room.
package hotspot

import (
	"errors"
	"fmt"

	"github.com/Faultbox/vrtherapy/pkg/math"
)

// TitleID names the distinguished volume that resets the view.
const TitleID = "title"

// Registration errors. Both are fatal at startup.
var (
	ErrDuplicateID   = errors.New("duplicate hotspot id")
	ErrInvalidVolume = errors.New("invalid bounding volume")
)

// OrientedBox is a unit cube scaled, rotated about one principal axis,
// then translated. It mirrors an invisible collision proxy in the scene.
type OrientedBox struct {
	Scale    math.Vec3
	Position math.Vec3
	Axis     math.Axis
	Angle    float32 // radians
}

// Validate reports malformed box parameters.
func (b OrientedBox) Validate() error {
	if !b.Scale.IsFinite() || b.Scale.X <= 0 || b.Scale.Y <= 0 || b.Scale.Z <= 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidVolume, b.Scale)
	}
	if !b.Position.IsFinite() {
		return fmt.Errorf("%w: position %v", ErrInvalidVolume, b.Position)
	}
	if b.Axis < math.AxisNone || b.Axis > math.AxisZ {
		return fmt.Errorf("%w: axis %d", ErrInvalidVolume, b.Axis)
	}
	if !math.IsFinite(b.Angle) {
		return fmt.Errorf("%w: angle %v", ErrInvalidVolume, b.Angle)
	}
	return nil
}

// Matrix returns the box's local-to-world transform.
func (b OrientedBox) Matrix() math.Mat4 {
	return math.Compose(b.Position, b.Axis, b.Angle, b.Scale)
}

// Contains reports whether a world-space point lies strictly inside the box.
func (b OrientedBox) Contains(p math.Vec3) bool {
	local := b.Matrix().Inverse().TransformVec3(p)
	return local.X > -0.5 && local.X < 0.5 &&
		local.Y > -0.5 && local.Y < 0.5 &&
		local.Z > -0.5 && local.Z < 0.5
}

// Corners returns the eight world-space corners of the box.
func (b OrientedBox) Corners() [8]math.Vec3 {
	m := b.Matrix()
	var out [8]math.Vec3
	for i := 0; i < 8; i++ {
		local := math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}
		if i&1 != 0 {
			local.X = 0.5
		}
		if i&2 != 0 {
			local.Y = 0.5
		}
		if i&4 != 0 {
			local.Z = 0.5
		}
		out[i] = m.TransformVec3(local)
	}
	return out
}

// Hotspot is a named interactive region with the camera pose used to inspect it.
type Hotspot struct {
	ID            string
	Volume        OrientedBox
	FocusedPose   math.Vec3
	FocusedLookAt math.Vec3
}

// IsTitle reports whether h is the reset volume.
func (h Hotspot) IsTitle() bool {
	return h.ID == TitleID
}
