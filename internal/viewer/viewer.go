// Package viewer ties the camera, orbit controls, hotspot picking and
// camera transitions of the therapy room together behind one context
// object driven by the render loop.
package viewer

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/engine/camera"
	"github.com/Faultbox/vrtherapy/internal/engine/picking"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/logger"
	"github.com/Faultbox/vrtherapy/internal/navigation"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

// Options configures a Viewer.
type Options struct {
	Config *config.Config

	// Registry overrides the hotspots from Config when set.
	Registry *hotspot.Registry

	Width  int
	Height int
}

// Pick is the result of a click.
type Pick struct {
	ID       string
	Hit      bool
	Decision navigation.Decision
	// Err is set when a transition could not start.
	Err error
}

// Viewer is the single owner of scene navigation state.
type Viewer struct {
	cfg *config.Config

	camera     *camera.PerspectiveCamera
	controls   *camera.OrbitControls
	registry   *hotspot.Registry
	picker     *picking.Picker
	focus      *navigation.FocusMachine
	transition *navigation.Controller
	gate       navigation.PickingGate

	width, height int

	log *zap.Logger
}

// New builds the viewer with the camera at its default pose.
func New(opts Options) (*Viewer, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	reg := opts.Registry
	if reg == nil {
		var err error
		if len(cfg.Hotspots) > 0 {
			reg, err = hotspot.FromConfig(cfg.Hotspots)
		} else {
			reg, err = hotspot.RoomLayout()
		}
		if err != nil {
			return nil, fmt.Errorf("build hotspots: %w", err)
		}
	}

	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = cfg.Window.Width, cfg.Window.Height
	}

	cam := camera.NewPerspectiveCamera(radians(cfg.Camera.FovDeg), 1, cfg.Camera.Near, cfg.Camera.Far)
	cam.SetAspect(w, h)
	cam.Position = vec(cfg.Camera.DefaultPose)

	nav := cfg.Navigation
	controls := camera.NewOrbitControls(cam)
	controls.Target = vec(cfg.Camera.DefaultLookAt)
	controls.SetDistanceBounds(nav.MinDistance, nav.MaxDistance)
	controls.MinPolarAngle = radians(nav.MinPolarDeg)
	controls.MaxPolarAngle = radians(nav.MaxPolarDeg)
	controls.EnableDamping = nav.EnableDamping
	controls.DampingFactor = nav.DampingFactor
	controls.RotateSpeed = nav.RotateSpeed
	controls.ZoomSpeed = nav.ZoomSpeed
	controls.Sync()

	v := &Viewer{
		cfg:      cfg,
		camera:   cam,
		controls: controls,
		registry: reg,
		picker:   picking.NewPicker(reg.Pickables()),
		focus:    navigation.NewFocusMachine(reg),
		width:    w,
		height:   h,
		log:      logger.Named("viewer"),
	}
	v.transition = navigation.NewController(controls, &v.gate, navigation.SettingsFromConfig(cfg))

	v.log.Info("viewer ready",
		zap.Int("hotspots", reg.Len()),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	return v, nil
}

// HandleClick picks at window coordinates and starts any resulting
// transition. Clicks are ignored while picking is disabled. A running
// transition rejects the click before focus changes, so focus and camera
// always agree.
func (v *Viewer) HandleClick(x, y float32) Pick {
	if !v.gate.Enabled() {
		return Pick{}
	}
	if v.transition.Running() {
		return Pick{Err: navigation.ErrTransitionRunning}
	}

	inv := v.camera.ViewProjection().Inverse()
	ray := picking.ScreenToRay(x, y, float32(v.width), float32(v.height), inv)
	id, ok := v.picker.Pick(ray)

	p := Pick{ID: id, Hit: ok}
	p.Decision = v.focus.Resolve(id, ok)
	if err := v.transition.Apply(p.Decision); err != nil {
		v.log.Warn("transition not started", zap.String("id", id), zap.Error(err))
		p.Err = err
	}
	return p
}

// HandleDrag forwards a pointer drag to the orbit controls.
func (v *Viewer) HandleDrag(dx, dy float32) {
	v.controls.HandleDrag(dx, dy, float32(v.height))
}

// HandleZoom forwards a wheel delta to the orbit controls.
func (v *Viewer) HandleZoom(delta float32) {
	v.controls.HandleZoom(delta)
}

// Frame advances one frame: orbit navigation, then the transition tick.
// The orbit update is skipped while a transition owns the pose.
func (v *Viewer) Frame(dt float32) {
	if !v.transition.Running() {
		v.controls.Update()
	}
	v.transition.Tick(dt)
}

// Resize updates the viewport and the camera aspect.
func (v *Viewer) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	v.width, v.height = w, h
	v.camera.SetAspect(w, h)
}

// Focused returns the focused hotspot id, if any.
func (v *Viewer) Focused() (string, bool) {
	return v.focus.State().Hotspot()
}

func (v *Viewer) PickingEnabled() bool { return v.gate.Enabled() }
func (v *Viewer) Transitioning() bool { return v.transition.Running() }
func (v *Viewer) Camera() *camera.PerspectiveCamera { return v.camera }
func (v *Viewer) Controls() *camera.OrbitControls { return v.controls }
func (v *Viewer) Registry() *hotspot.Registry { return v.registry }
func (v *Viewer) Transition() *navigation.Controller { return v.transition }
func (v *Viewer) Viewport() (w, h int) { return v.width, v.height }
func (v *Viewer) Config() *config.Config { return v.cfg }

func radians(deg float32) float32 {
	return deg * float32(gomath.Pi) / 180
}

func vec(v config.Vec3) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
