// Package picking turns pointer positions into world rays and resolves them
// against the scene's pickable volumes.
package picking

import (
	gomath "math"

	"github.com/Faultbox/vrtherapy/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// UnitCube is the local-space box shared by every collision proxy.
var UnitCube = AABB{
	Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
	Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
}

// NormalizePointer converts viewport pixel coordinates to normalized device
// coordinates in [-1, 1] on both axes, with Y pointing up.
func NormalizePointer(x, y, viewportW, viewportH float32) math.Vec2 {
	return math.Vec2{
		X: x/viewportW*2 - 1,
		Y: -(y/viewportH)*2 + 1,
	}
}

// ScreenToRay converts viewport coordinates to a world-space ray.
// invViewProj is the inverse of the camera's view-projection matrix.
func ScreenToRay(x, y, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	return NDCToRay(NormalizePointer(x, y, viewportW, viewportH), invViewProj)
}

// NDCToRay unprojects a normalized device coordinate onto the near and far
// planes and returns the ray between them.
func NDCToRay(ndc math.Vec2, invViewProj math.Mat4) Ray {
	near := unproject(invViewProj, math.Vec4{ndc.X, ndc.Y, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndc.X, ndc.Y, 1, 1})
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box
// using the slab method. The direction need not be normalized; t is in
// units of the direction vector. If the ray starts inside the box, the exit
// distance is returned.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin.At(axis), r.Direction.At(axis)
		lo, hi := box.Min.At(axis), box.Max.At(axis)
		if d == 0 {
			// Parallel to the slab: must already be between its planes.
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectOBB tests the ray against a unit cube placed by model (T*R*S).
// The ray is moved into box-local space without renormalizing, so the
// returned t stays in world units of r.Direction.
func (r Ray) IntersectOBB(invModel math.Mat4) (t float32, hit bool) {
	local := Ray{
		Origin:    invModel.TransformVec3(r.Origin),
		Direction: dir(invModel.TransformDirection(r.Direction.Array())),
	}
	return local.IntersectAABB(UnitCube)
}

func dir(d [3]float32) math.Vec3 {
	return math.Vec3{X: d[0], Y: d[1], Z: d[2]}
}
