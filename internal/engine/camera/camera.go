// Package camera provides the perspective camera and the orbit navigation
// controls that move it around a look-at target.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/vrtherapy/pkg/math"
)

// PerspectiveCamera is a camera that looks from Position toward Target.
type PerspectiveCamera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fovY, aspect, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		Target: math.Vec3{Z: -1},
		Up:     math.Vec3{Y: 1},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// LookAt points the camera at target.
func (c *PerspectiveCamera) LookAt(target math.Vec3) {
	c.Target = target
}

// SetAspect updates the aspect ratio after a viewport resize.
func (c *PerspectiveCamera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the view matrix for this camera.
func (c *PerspectiveCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.upVector())
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *PerspectiveCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *PerspectiveCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Project maps a world point to viewport pixel coordinates.
// ok is false for points behind the camera.
func (c *PerspectiveCamera) Project(p math.Vec3, viewportW, viewportH float32) (x, y float32, ok bool) {
	clip := c.ViewProjection().MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
	return (ndcX + 1) / 2 * viewportW, (1 - ndcY) / 2 * viewportH, true
}

// upVector avoids a degenerate basis when looking straight up or down.
func (c *PerspectiveCamera) upVector() math.Vec3 {
	dir := c.Target.Sub(c.Position).Normalize()
	up := c.Up
	if math32.Abs(dir.Dot(up.Normalize())) > 0.9999 {
		return math.Vec3{Z: -1}
	}
	return up
}
