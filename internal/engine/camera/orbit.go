package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/vrtherapy/pkg/math"
)

// OrbitControls rotates and zooms a camera around Target. Input is only
// queued while the matching Enable flag is set, and the camera pose is
// only rewritten when there is input to apply.
type OrbitControls struct {
	camera *PerspectiveCamera

	// Target is the point the camera orbits and looks at.
	Target math.Vec3

	// Constraints
	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32
	MaxPolarAngle float32

	EnableRotate  bool
	EnableZoom    bool
	EnableDamping bool
	DampingFactor float32

	// Sensitivity
	RotateSpeed float32
	ZoomSpeed   float32

	// Pending input, consumed by Update.
	deltaTheta float32
	deltaPhi   float32
	zoomScale  float32
}

// NewOrbitControls attaches orbit controls to a camera.
func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		camera:        cam,
		Target:        cam.Target,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math32.Pi,
		EnableRotate:  true,
		EnableZoom:    true,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		zoomScale:     1,
	}
}

// Camera returns the controlled camera.
func (o *OrbitControls) Camera() *PerspectiveCamera {
	return o.camera
}

// HandleDrag queues a rotation from a pointer drag in pixels. viewportH
// scales the drag so a full-height drag turns the camera by 2π.
func (o *OrbitControls) HandleDrag(deltaX, deltaY, viewportH float32) {
	if !o.EnableRotate || viewportH <= 0 {
		return
	}
	o.deltaTheta -= 2 * math32.Pi * deltaX / viewportH * o.RotateSpeed
	o.deltaPhi -= 2 * math32.Pi * deltaY / viewportH * o.RotateSpeed
}

// HandleZoom queues a dolly from a scroll wheel delta; positive zooms in.
func (o *OrbitControls) HandleZoom(delta float32) {
	if !o.EnableZoom || delta == 0 {
		return
	}
	scale := math32.Pow(0.95, o.ZoomSpeed*math32.Abs(delta))
	if delta > 0 {
		o.zoomScale *= scale
	} else {
		o.zoomScale /= scale
	}
}

// Pending reports whether Update has input left to apply.
func (o *OrbitControls) Pending() bool {
	const eps = 1e-6
	return math32.Abs(o.deltaTheta) > eps || math32.Abs(o.deltaPhi) > eps ||
		o.zoomScale != 1
}

// Update applies queued input, clamps to the configured bounds and writes
// the camera pose. It reports whether the camera moved.
func (o *OrbitControls) Update() bool {
	if !o.Pending() {
		o.deltaTheta, o.deltaPhi = 0, 0
		return false
	}

	s := math.SphericalFromVec3(o.camera.Position.Sub(o.Target))

	rotTheta, rotPhi := o.deltaTheta, o.deltaPhi
	if o.EnableDamping {
		rotTheta *= o.DampingFactor
		rotPhi *= o.DampingFactor
	}
	s.Theta += rotTheta
	s.Phi = math.Clamp(s.Phi+rotPhi, o.MinPolarAngle, o.MaxPolarAngle)
	s.Phi = math.Clamp(s.Phi, 1e-6, math32.Pi-1e-6)

	s.Radius = math.Clamp(s.Radius*o.zoomScale, o.MinDistance, o.MaxDistance)

	o.camera.Position = o.Target.Add(s.Vec3())
	o.camera.LookAt(o.Target)

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
	}
	o.zoomScale = 1
	return true
}

// Stop discards queued input, including damping momentum.
func (o *OrbitControls) Stop() {
	o.deltaTheta, o.deltaPhi = 0, 0
	o.zoomScale = 1
}

// Sync points the camera at the current Target without moving it. Callers
// that write Target directly use this to keep the view consistent.
func (o *OrbitControls) Sync() {
	o.camera.LookAt(o.Target)
}

// SetDistanceBounds sets the orbit distance clamp.
func (o *OrbitControls) SetDistanceBounds(min, max float32) {
	o.MinDistance = min
	o.MaxDistance = max
}

// Distance returns the current camera-to-target distance.
func (o *OrbitControls) Distance() float32 {
	return o.camera.Position.Distance(o.Target)
}
