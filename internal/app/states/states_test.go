package states

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vrtherapy/internal/assets"
	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/engine/input"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/viewer"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

const frame = 1.0 / 60.0

type fakeRenderer struct {
	loading []string
	failed  bool
	percent int
	scenes  int
	last    Scene
}

func (f *fakeRenderer) DrawLoading(percent int, status string, failed bool) {
	f.percent = percent
	f.loading = append(f.loading, status)
	f.failed = failed
}

func (f *fakeRenderer) DrawScene(scene Scene) {
	f.scenes++
	f.last = scene
}

type recordingState struct {
	name string
	log  *[]string
	err  error
}

func (s *recordingState) record(event string) {
	*s.log = append(*s.log, s.name+"."+event)
}

func (s *recordingState) Enter() error {
	s.record("enter")
	return s.err
}

func (s *recordingState) Exit() error {
	s.record("exit")
	return nil
}

func (s *recordingState) Update(float64) error {
	s.record("update")
	return nil
}

func (s *recordingState) Render() error { return nil }
func (s *recordingState) HandleInput(interface{}) error { return nil }

func TestManagerDefersChange(t *testing.T) {
	var log []string
	m := NewManager()
	a := &recordingState{name: "a", log: &log}
	b := &recordingState{name: "b", log: &log}

	m.Change(a)
	assert.Nil(t, m.Current())
	require.NoError(t, m.Update(frame))
	assert.Same(t, a, m.Current())

	m.Change(b)
	require.NoError(t, m.Update(frame))
	require.NoError(t, m.Close())

	assert.Equal(t, []string{"a.enter", "a.update", "a.exit", "b.enter", "b.update", "b.exit"}, log)
	assert.Nil(t, m.Current())
}

func TestManagerEnterError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	m := NewManager()
	m.Change(&recordingState{name: "a", log: &log, err: boom})
	assert.ErrorIs(t, m.Update(frame), boom)
}

func glb(t *testing.T) []byte {
	t.Helper()
	json := []byte(`{"asset":{"version":"2.0"}}`)
	le := binary.LittleEndian
	var b bytes.Buffer
	binary.Write(&b, le, uint32(0x46546C67))
	binary.Write(&b, le, uint32(2))
	binary.Write(&b, le, uint32(12+8+len(json)))
	binary.Write(&b, le, uint32(len(json)))
	binary.Write(&b, le, uint32(0x4E4F534A))
	b.Write(json)
	return b.Bytes()
}

func newLoading(t *testing.T, files map[string][]byte) (*Manager, *fakeRenderer) {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	cfg := config.Default()
	cfg.Assets.Base = dir
	cfg.Assets.Font = "fonts/missing.ttf"

	r := &fakeRenderer{}
	m := NewManager()
	m.Change(NewLoadingState(LoadingConfig{
		Config:   cfg,
		Assets:   assets.NewManager(assets.DirSource{Root: dir}),
		Renderer: r,
		Width:    1280,
		Height:   720,
	}, m))
	return m, r
}

// pump updates m until cond holds or the deadline passes.
func pump(t *testing.T, m *Manager, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "condition not reached")
		require.NoError(t, m.Update(frame))
		time.Sleep(time.Millisecond)
	}
}

func TestLoadingSwitchesToViewing(t *testing.T) {
	m, r := newLoading(t, map[string][]byte{"VR Therapy Scene.glb": glb(t)})

	require.NoError(t, m.Update(frame))
	require.NoError(t, m.Render())
	require.NotEmpty(t, r.loading)

	pump(t, m, func() bool {
		_, ok := m.Current().(*ViewingState)
		return ok
	})

	vs := m.Current().(*ViewingState)
	require.NotNil(t, vs.Model())
	assert.Equal(t, uint32(2), vs.Model().Version)
	assert.Equal(t, math.Vec3{X: -6, Y: 4, Z: 6}, vs.Viewer().Camera().Position)

	require.NoError(t, m.Render())
	assert.Equal(t, 1, r.scenes)
	assert.Len(t, r.last.Hotspots, 9)
	assert.False(t, r.last.Debug)
}

func TestLoadingFailureStays(t *testing.T) {
	m, r := newLoading(t, nil)

	var ls *LoadingState
	pump(t, m, func() bool {
		s, ok := m.Current().(*LoadingState)
		if !ok {
			return false
		}
		ls = s
		return s.Err() != nil
	})

	assert.ErrorIs(t, ls.Err(), assets.ErrNotFound)
	assert.Equal(t, "Failed to load the room", ls.Status())

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Update(frame))
	}
	assert.Same(t, ls, m.Current())

	require.NoError(t, m.Render())
	assert.True(t, r.failed)
}

func TestLoadingRejectsBadModel(t *testing.T) {
	m, _ := newLoading(t, map[string][]byte{"VR Therapy Scene.glb": []byte("not a model")})

	pump(t, m, func() bool {
		s, ok := m.Current().(*LoadingState)
		return ok && s.Err() != nil
	})
	assert.ErrorIs(t, m.Current().(*LoadingState).Err(), assets.ErrInvalidGLB)
}

func TestLoadingStatusShowsPercent(t *testing.T) {
	s := NewLoadingState(LoadingConfig{}, NewManager())
	s.loaded.Store(1)
	s.total.Store(4)
	assert.Equal(t, 25, s.Percent())
	assert.Equal(t, "Loading... 25%", s.Status())

	require.NoError(t, s.HandleInput(input.Resize{Width: 800, Height: 600}))
	assert.Equal(t, 800, s.config.Width)
}

func newViewing(t *testing.T, cfg *config.Config, secondary *assets.Secondary) (*ViewingState, *fakeRenderer) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	v, err := viewer.New(viewer.Options{Config: cfg, Width: 1280, Height: 720})
	require.NoError(t, err)

	ch := make(chan *assets.Secondary, 1)
	ch <- secondary
	close(ch)

	r := &fakeRenderer{}
	s := NewViewingState(ViewingConfig{Config: cfg, Viewer: v, Secondary: ch, Renderer: r})
	require.NoError(t, s.Enter())
	t.Cleanup(func() { s.Exit() })
	return s, r
}

func clickHotspot(t *testing.T, s *ViewingState, id string) {
	t.Helper()
	v := s.Viewer()
	h, ok := v.Registry().Get(id)
	require.True(t, ok)
	w, hgt := v.Viewport()
	x, y, ok := v.Camera().Project(h.Volume.Position, float32(w), float32(hgt))
	require.True(t, ok)
	require.NoError(t, s.HandleInput(input.Click{X: x, Y: y}))
}

func settle(t *testing.T, s *ViewingState) {
	t.Helper()
	for i := 0; s.Viewer().Transitioning(); i++ {
		require.Less(t, i, 10000)
		require.NoError(t, s.Update(frame))
	}
	require.NoError(t, s.Update(frame))
}

func TestViewingShowsFocusedPanel(t *testing.T) {
	s, r := newViewing(t, nil, &assets.Secondary{})

	require.NoError(t, s.Update(frame))
	img, id := s.Panel()
	assert.Nil(t, img)
	assert.Empty(t, id)

	clickHotspot(t, s, "book")
	require.NoError(t, s.Update(frame))
	img, _ = s.Panel()
	assert.Nil(t, img, "no panel while the camera moves")

	settle(t, s)
	img, id = s.Panel()
	require.NotNil(t, img)
	assert.Equal(t, "book", id)

	require.NoError(t, s.Render())
	assert.Same(t, img, r.last.Panel)
	key := r.last.PanelKey

	// Toggling the book off clears the panel.
	clickHotspot(t, s, "book")
	require.NoError(t, s.Update(frame))
	img, _ = s.Panel()
	assert.Nil(t, img)
	require.NoError(t, s.Render())
	assert.NotEqual(t, key, r.last.PanelKey)
}

func TestViewingUsesLoadedImages(t *testing.T) {
	pic := image.NewRGBA(image.Rect(0, 0, 4, 4))
	sec := &assets.Secondary{Images: map[string]image.Image{"img/vr-6770800_640.png": pic}}

	withPic, _ := newViewing(t, nil, sec)
	plain, _ := newViewing(t, nil, &assets.Secondary{})

	for _, s := range []*ViewingState{withPic, plain} {
		require.NoError(t, s.Update(frame))
		clickHotspot(t, s, "picture1")
		settle(t, s)
	}

	a, _ := withPic.Panel()
	b, _ := plain.Panel()
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Greater(t, a.Bounds().Dy(), b.Bounds().Dy())
}

func TestViewingDebugProxies(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.ShowProxies = true
	s, r := newViewing(t, cfg, nil)

	require.NoError(t, s.Render())
	assert.Len(t, r.last.Hotspots, 9)
	assert.True(t, r.last.Debug)
}

func TestViewingDefaultSceneShowsClickables(t *testing.T) {
	s, r := newViewing(t, nil, nil)
	require.NoError(t, s.Render())

	scene := r.last
	require.NotNil(t, scene.Camera)
	assert.False(t, scene.Debug)
	assert.Empty(t, scene.Focused)

	require.Len(t, scene.Hotspots, 9)
	title := scene.Hotspots[len(scene.Hotspots)-1]
	assert.Equal(t, hotspot.TitleID, title.ID)

	require.Len(t, scene.Labels, 9)
	byID := make(map[string]Label, len(scene.Labels))
	for _, l := range scene.Labels {
		assert.NotEmpty(t, l.Text, l.ID)
		byID[l.ID] = l
	}
	assert.Equal(t, "VR Therapy", byID[hotspot.TitleID].Text)
	assert.True(t, byID[hotspot.TitleID].Title)
	assert.Equal(t, "The Science of VR Therapy", byID["book"].Text)
	assert.False(t, byID["book"].Title)

	book, ok := s.Viewer().Registry().Get("book")
	require.True(t, ok)
	assert.Greater(t, byID["book"].Anchor.Y, book.Volume.Position.Y)

	for _, h := range scene.Hotspots {
		l := byID[h.ID]
		_, _, visible := scene.Camera.Project(l.Anchor, 1280, 720)
		assert.True(t, visible, "%s label should be in front of the default camera", h.ID)
	}
}

func TestViewingSceneTracksFocus(t *testing.T) {
	s, r := newViewing(t, nil, nil)
	require.NoError(t, s.Update(frame))
	clickHotspot(t, s, "book")
	settle(t, s)

	require.NoError(t, s.Render())
	assert.Equal(t, "book", r.last.Focused)
	assert.NotNil(t, r.last.Panel)
}

func TestViewingForwardsInput(t *testing.T) {
	s, _ := newViewing(t, nil, nil)
	v := s.Viewer()
	start := v.Camera().Position

	require.NoError(t, s.HandleInput(input.Drag{DX: 50}))
	require.NoError(t, s.Update(frame))
	assert.NotEqual(t, start, v.Camera().Position)

	require.NoError(t, s.HandleInput(input.Wheel{Delta: 1}))
	assert.True(t, v.Controls().Pending())

	require.NoError(t, s.HandleInput(input.Resize{Width: 640, Height: 480}))
	w, h := v.Viewport()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestViewingReloadsWatchedPanels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("panels:\n  - hotspot: book\n    title: One\n"), 0o644))

	cfg := config.Default()
	cfg.Content.File = path
	cfg.Debug.WatchContent = true
	s, _ := newViewing(t, cfg, nil)

	p, _ := s.Catalog().Get("book")
	require.Equal(t, "One", p.Title)

	require.NoError(t, os.WriteFile(path, []byte("panels:\n  - hotspot: book\n    title: Two\n"), 0o644))
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, s.Update(frame))
		if p, _ := s.Catalog().Get("book"); p.Title == "Two" {
			break
		}
		require.True(t, time.Now().Before(deadline), "panels never reloaded")
		time.Sleep(10 * time.Millisecond)
	}
}
