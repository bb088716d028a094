package navigation

import (
	"errors"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/engine/camera"
	"github.com/Faultbox/vrtherapy/internal/engine/tween"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/logger"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

// ErrTransitionRunning is returned when a transition is requested while
// another one is still in flight.
var ErrTransitionRunning = errors.New("navigation: transition already running")

// PickingGate switches pointer picking on and off. The zero value is enabled.
type PickingGate struct {
	disabled bool
}

func (g *PickingGate) Enable()       { g.disabled = false }
func (g *PickingGate) Disable()      { g.disabled = true }
func (g *PickingGate) Enabled() bool { return !g.disabled }

// Kind distinguishes focus transitions from resets.
type Kind int

const (
	KindFocus Kind = iota
	KindReset
)

func (k Kind) String() string {
	if k == KindReset {
		return "reset"
	}
	return "focus"
}

// Request describes one camera transition.
type Request struct {
	Kind      Kind
	Pose      math.Vec3
	LookAt    math.Vec3
	HotspotID string
}

// Settings holds transition timing and the bounds restored on completion.
type Settings struct {
	Duration   float32
	Ease       tween.Ease
	FocusSteps int
	ResetSteps int
	FocusSlack float32

	// Home view restored by resets.
	DefaultPose   math.Vec3
	DefaultLookAt math.Vec3
	DefaultMin    float32
	DefaultMax    float32
}

// DefaultSettings returns the stock transition feel.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// SettingsFromConfig builds Settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	ease, ok := tween.ByName(cfg.Transition.Ease)
	if !ok {
		logger.Warn("unknown ease, using power3.inOut", zap.String("ease", cfg.Transition.Ease))
	}
	c := cfg.Camera
	return Settings{
		Duration:      cfg.Transition.Duration,
		Ease:          ease,
		FocusSteps:    cfg.Transition.FocusSteps,
		ResetSteps:    cfg.Transition.ResetSteps,
		FocusSlack:    cfg.Transition.FocusSlack,
		DefaultPose:   math.Vec3{X: c.DefaultPose[0], Y: c.DefaultPose[1], Z: c.DefaultPose[2]},
		DefaultLookAt: math.Vec3{X: c.DefaultLookAt[0], Y: c.DefaultLookAt[1], Z: c.DefaultLookAt[2]},
		DefaultMin:    cfg.Navigation.MinDistance,
		DefaultMax:    cfg.Navigation.MaxDistance,
	}
}

// Controller runs at most one camera transition at a time. It owns the
// camera position and orbit target while running and hands them back to
// the orbit controls when done.
type Controller struct {
	orbit    *camera.OrbitControls
	gate     *PickingGate
	settings Settings
	ticker   tween.Ticker

	running   bool
	req       Request
	rate      math.Vec3
	rateReady bool

	// OnComplete, if set, is called after a transition finishes and the
	// controls have been re-enabled.
	OnComplete func(Request)

	log *zap.Logger
}

// NewController creates an idle controller.
func NewController(orbit *camera.OrbitControls, gate *PickingGate, settings Settings) *Controller {
	if settings.Ease == nil {
		settings.Ease = tween.Power3InOut
	}
	return &Controller{
		orbit:    orbit,
		gate:     gate,
		settings: settings,
		log:      logger.Named("navigation"),
	}
}

// Running reports whether a transition is in flight.
func (c *Controller) Running() bool {
	return c.running
}

// Current returns the in-flight request.
func (c *Controller) Current() (Request, bool) {
	return c.req, c.running
}

// Apply turns a focus decision into a transition. ActionNone is a no-op.
func (c *Controller) Apply(d Decision) error {
	switch d.Action {
	case ActionFocus:
		return c.Start(FocusRequest(d.Hotspot))
	case ActionReset:
		return c.Start(c.ResetRequest())
	}
	return nil
}

// FocusRequest builds the transition to a hotspot's focused pose.
func FocusRequest(h hotspot.Hotspot) Request {
	return Request{
		Kind:      KindFocus,
		Pose:      h.FocusedPose,
		LookAt:    h.FocusedLookAt,
		HotspotID: h.ID,
	}
}

// ResetRequest builds the transition back to the home view.
func (c *Controller) ResetRequest() Request {
	return Request{
		Kind:   KindReset,
		Pose:   c.settings.DefaultPose,
		LookAt: c.settings.DefaultLookAt,
	}
}

// Start begins a transition. Picking, rotation and zoom stay disabled
// until it completes.
func (c *Controller) Start(req Request) error {
	if c.running {
		c.log.Warn("transition request rejected",
			zap.Stringer("kind", req.Kind),
			zap.String("hotspot", req.HotspotID),
			zap.Stringer("running", c.req.Kind),
		)
		return ErrTransitionRunning
	}

	c.gate.Disable()
	c.orbit.EnableRotate = false
	c.orbit.EnableZoom = false
	c.orbit.MinDistance = 0
	c.orbit.Stop()
	if req.Kind == KindReset {
		c.orbit.MaxDistance = c.settings.DefaultMax
	}

	c.running = true
	c.req = req
	c.rateReady = false

	c.ticker.Add(tween.To(&c.orbit.Camera().Position, req.Pose, c.settings.Duration, tween.Options{
		Ease:       c.settings.Ease,
		OnUpdate:   c.stepLookAt,
		OnComplete: c.finish,
	}))

	pose := req.Pose.Array()
	c.log.Debug("transition started",
		zap.Stringer("kind", req.Kind),
		zap.String("hotspot", req.HotspotID),
		zap.Float32s("pose", pose[:]),
	)
	return nil
}

// Tick advances the running transition by dt seconds.
func (c *Controller) Tick(dt float32) {
	if !c.running {
		return
	}
	c.ticker.Tick(dt)
}

func (c *Controller) steps() float32 {
	if c.req.Kind == KindReset {
		return float32(c.settings.ResetSteps)
	}
	return float32(c.settings.FocusSteps)
}

// stepLookAt moves the orbit target a fixed amount per tick toward the
// requested look-at. Rates are taken from the live target on the first tick.
func (c *Controller) stepLookAt() {
	target := &c.orbit.Target
	if !c.rateReady {
		n := c.steps()
		d := c.req.LookAt.Sub(*target)
		c.rate = math.Vec3{X: math32.Abs(d.X) / n, Y: math32.Abs(d.Y) / n, Z: math32.Abs(d.Z) / n}
		c.rateReady = true
	}
	for i := 0; i < 3; i++ {
		target.SetAt(i, approach(target.At(i), c.req.LookAt.At(i), c.rate.At(i)))
	}
	c.orbit.Sync()
}

// approach moves cur toward end by rate, landing exactly on end once it
// would reach or pass it.
func approach(cur, end, rate float32) float32 {
	if cur > end {
		cur -= rate
		if cur <= end {
			return end
		}
		return cur
	}
	cur += rate
	if cur >= end {
		return end
	}
	return cur
}

func (c *Controller) finish() {
	req := c.req
	c.orbit.Target = req.LookAt
	c.orbit.Sync()

	if req.Kind == KindFocus {
		d := c.orbit.Distance()
		c.orbit.SetDistanceBounds(d, d+c.settings.FocusSlack)
	} else {
		c.orbit.SetDistanceBounds(c.settings.DefaultMin, c.settings.DefaultMax)
	}
	c.orbit.EnableRotate = true
	c.orbit.EnableZoom = true
	c.gate.Enable()
	c.running = false

	c.log.Info("transition complete",
		zap.Stringer("kind", req.Kind),
		zap.String("hotspot", req.HotspotID),
		zap.Float32("min_distance", c.orbit.MinDistance),
		zap.Float32("max_distance", c.orbit.MaxDistance),
	)
	if c.OnComplete != nil {
		c.OnComplete(req)
	}
}
