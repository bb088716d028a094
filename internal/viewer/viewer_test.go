package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/navigation"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

const frame = float32(1.0 / 60.0)

var defaultPose = math.Vec3{X: -6, Y: 4, Z: 6}

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	v, err := New(Options{Width: 1280, Height: 720})
	require.NoError(t, err)
	return v
}

// clickAt clicks where the world point p appears on screen.
func clickAt(t *testing.T, v *Viewer, p math.Vec3) Pick {
	t.Helper()
	w, h := v.Viewport()
	x, y, ok := v.Camera().Project(p, float32(w), float32(h))
	require.True(t, ok, "point behind camera")
	return v.HandleClick(x, y)
}

func settle(t *testing.T, v *Viewer) {
	t.Helper()
	for i := 0; v.Transitioning(); i++ {
		require.Less(t, i, 10000)
		v.Frame(frame)
	}
}

func TestNewDefaults(t *testing.T) {
	v := newTestViewer(t)

	assert.Equal(t, defaultPose, v.Camera().Position)
	assert.Equal(t, math.Vec3{}, v.Controls().Target)
	assert.Equal(t, float32(4), v.Controls().MinDistance)
	assert.Equal(t, float32(15), v.Controls().MaxDistance)
	assert.True(t, v.Controls().EnableDamping)
	assert.InDelta(t, 1280.0/720.0, v.Camera().Aspect, 1e-6)
	assert.True(t, v.PickingEnabled())
	assert.Equal(t, 8, v.Registry().Len())

	_, focused := v.Focused()
	assert.False(t, focused)
}

func TestNewFromConfiguredHotspots(t *testing.T) {
	cfg := config.Default()
	cfg.Hotspots = []config.HotspotConfig{{
		ID:            "lamp",
		Scale:         config.Vec3{1, 1, 1},
		Position:      config.Vec3{0, 1, 0},
		FocusedPose:   config.Vec3{0, 1, 2},
		FocusedLookAt: config.Vec3{0, 1, 0},
	}}

	v, err := New(Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Registry().Len())

	w, h := v.Viewport()
	assert.Equal(t, cfg.Window.Width, w)
	assert.Equal(t, cfg.Window.Height, h)
}

func TestNewRejectsBadHotspots(t *testing.T) {
	cfg := config.Default()
	cfg.Hotspots = []config.HotspotConfig{
		{ID: "a", Scale: config.Vec3{1, 1, 1}},
		{ID: "a", Scale: config.Vec3{1, 1, 1}},
	}
	_, err := New(Options{Config: cfg})
	assert.ErrorIs(t, err, hotspot.ErrDuplicateID)
}

func TestClickBookScenario(t *testing.T) {
	v := newTestViewer(t)
	book, _ := v.Registry().Get("book")

	p := clickAt(t, v, book.Volume.Position)
	require.True(t, p.Hit)
	assert.Equal(t, "book", p.ID)
	assert.Equal(t, navigation.ActionFocus, p.Decision.Action)
	assert.NoError(t, p.Err)

	assert.True(t, v.Transitioning())
	assert.False(t, v.PickingEnabled())

	// Clicks during the transition are ignored.
	ignored := v.HandleClick(640, 360)
	assert.False(t, ignored.Hit)

	settle(t, v)

	assert.Equal(t, book.FocusedPose, v.Camera().Position)
	assert.Equal(t, book.FocusedLookAt, v.Controls().Target)
	assert.InDelta(t, 1.35, v.Camera().Position.Y, 1e-6)
	assert.InDelta(t, 0.45, v.Controls().Target.X, 1e-6)
	d := v.Controls().Distance()
	assert.Equal(t, d, v.Controls().MinDistance)
	assert.Equal(t, d+2, v.Controls().MaxDistance)
	assert.True(t, v.PickingEnabled())

	id, focused := v.Focused()
	assert.True(t, focused)
	assert.Equal(t, "book", id)
}

func TestClickFocusedHotspotResets(t *testing.T) {
	v := newTestViewer(t)

	for _, h := range v.Registry().All() {
		t.Run(h.ID, func(t *testing.T) {
			v := newTestViewer(t)
			p := clickAt(t, v, h.Volume.Position)
			require.Equal(t, h.ID, p.ID)
			require.Equal(t, navigation.ActionFocus, p.Decision.Action)
			settle(t, v)

			// From the focused pose the hotspot sits at the centre of the view.
			p = clickAt(t, v, h.Volume.Position)
			require.Equal(t, h.ID, p.ID)
			assert.Equal(t, navigation.ActionReset, p.Decision.Action)
			settle(t, v)

			assert.Equal(t, defaultPose, v.Camera().Position)
			assert.Equal(t, math.Vec3{}, v.Controls().Target)
			_, focused := v.Focused()
			assert.False(t, focused)
		})
	}
}

func TestClickWhileTransitionRunningKeepsFocus(t *testing.T) {
	v := newTestViewer(t)
	book, _ := v.Registry().Get("book")
	monitor, _ := v.Registry().Get("monitor")
	clickAt(t, v, book.Volume.Position)
	require.True(t, v.Transitioning())

	// Picking re-enabled mid-flight must not let focus run ahead of the camera.
	v.gate.Enable()
	p := clickAt(t, v, monitor.Volume.Position)
	assert.ErrorIs(t, p.Err, navigation.ErrTransitionRunning)
	assert.False(t, p.Hit)
	assert.Equal(t, navigation.ActionNone, p.Decision.Action)

	id, focused := v.Focused()
	require.True(t, focused)
	assert.Equal(t, "book", id)

	settle(t, v)
	assert.Equal(t, book.FocusedPose, v.Camera().Position)
	assert.Equal(t, book.FocusedLookAt, v.Controls().Target)
	id, _ = v.Focused()
	assert.Equal(t, "book", id)
}

func TestClickTitleAtDefaultKeepsPose(t *testing.T) {
	v := newTestViewer(t)
	title, ok := v.Registry().Title()
	require.True(t, ok)

	p := clickAt(t, v, title.Volume.Position)
	require.Equal(t, hotspot.TitleID, p.ID)
	assert.Equal(t, navigation.ActionReset, p.Decision.Action)

	for v.Transitioning() {
		v.Frame(frame)
		assert.Equal(t, defaultPose, v.Camera().Position)
		assert.Equal(t, math.Vec3{}, v.Controls().Target)
	}
}

func TestClickEmptySpace(t *testing.T) {
	v := newTestViewer(t)

	// Rays rising from the default pose clear every volume.
	p := clickAt(t, v, math.Vec3{Y: 5})
	assert.False(t, p.Hit)
	assert.Equal(t, navigation.ActionNone, p.Decision.Action)
	assert.False(t, v.Transitioning())
	assert.True(t, v.PickingEnabled())
}

func TestDragOrbitsWhenIdle(t *testing.T) {
	v := newTestViewer(t)
	v.HandleDrag(100, 0)
	v.Frame(frame)

	assert.NotEqual(t, defaultPose, v.Camera().Position)
	assert.InDelta(t, defaultPose.Length(), v.Camera().Position.Length(), 1e-4)
}

func TestDragIgnoredDuringTransition(t *testing.T) {
	v := newTestViewer(t)
	book, _ := v.Registry().Get("book")
	clickAt(t, v, book.Volume.Position)

	v.HandleDrag(300, 300)
	v.HandleZoom(5)
	settle(t, v)

	assert.Equal(t, book.FocusedPose, v.Camera().Position)
	assert.False(t, v.Controls().Pending())
}

func TestResize(t *testing.T) {
	v := newTestViewer(t)
	v.Resize(800, 800)
	w, h := v.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 800, h)
	assert.Equal(t, float32(1), v.Camera().Aspect)

	v.Resize(0, 600)
	w, _ = v.Viewport()
	assert.Equal(t, 800, w)
}
