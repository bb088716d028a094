package states

import (
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/assets"
	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/content"
	"github.com/Faultbox/vrtherapy/internal/engine/input"
	"github.com/Faultbox/vrtherapy/internal/logger"
	"github.com/Faultbox/vrtherapy/internal/viewer"
)

// ViewingConfig contains everything the viewing state needs.
type ViewingConfig struct {
	Config *config.Config
	Viewer *viewer.Viewer
	Model  *assets.GLB

	// Secondary delivers the font and pictures; it may still be pending.
	Secondary <-chan *assets.Secondary
	Renderer  Renderer
}

// ViewingState runs the interactive room.
type ViewingState struct {
	config ViewingConfig
	viewer *viewer.Viewer

	catalog    *content.Catalog
	watcher    *content.Watcher
	rasterizer *content.Rasterizer
	images     map[string]image.Image

	panel    *image.RGBA
	panelID  string
	panelKey uint64

	// Inputs the current panel was rendered from.
	renderedVersion uint64
	renderedFont    uint64
	fontGen         uint64

	labels        []Label
	labelsVersion uint64

	log *zap.Logger
}

// NewViewingState creates a new viewing state.
func NewViewingState(cfg ViewingConfig) *ViewingState {
	if cfg.Config == nil {
		cfg.Config = config.Default()
	}
	return &ViewingState{
		config:  cfg,
		viewer:  cfg.Viewer,
		catalog: content.NewCatalog(),
		images:  make(map[string]image.Image),
		log:     logger.Named("viewing"),
	}
}

// Enter loads panel overrides and starts watching them in debug mode.
func (s *ViewingState) Enter() error {
	cc := s.config.Config.Content
	if cc.File != "" {
		if err := s.catalog.LoadFile(cc.File); err != nil {
			s.log.Warn("panel overrides not loaded", zap.Error(err))
		} else if s.config.Config.Debug.WatchContent {
			w, err := content.NewWatcher(cc.File)
			if err != nil {
				s.log.Warn("panel watch disabled", zap.Error(err))
			} else {
				s.watcher = w
			}
		}
	}

	reg := s.viewer.Registry()
	if missing := s.catalog.Unmatched(func(id string) bool {
		_, ok := reg.Get(id)
		return ok
	}); len(missing) > 0 {
		s.log.Warn("panels without a hotspot", zap.Strings("ids", missing))
	}

	r, err := content.NewRasterizer(nil, cc.PanelWidth)
	if err != nil {
		return err
	}
	s.rasterizer = r

	s.log.Info("entering ViewingState", zap.Int("hotspots", reg.Len()))
	return nil
}

// Exit stops the panel watcher and releases font faces.
func (s *ViewingState) Exit() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
	if s.rasterizer != nil {
		_ = s.rasterizer.Close()
	}
	return nil
}

// Viewer returns the room viewer.
func (s *ViewingState) Viewer() *viewer.Viewer {
	return s.viewer
}

// Model returns the validated room model.
func (s *ViewingState) Model() *assets.GLB {
	return s.config.Model
}

// Catalog returns the panel catalog.
func (s *ViewingState) Catalog() *content.Catalog {
	return s.catalog
}

// Panel returns the rendered panel of the focused hotspot, if any.
func (s *ViewingState) Panel() (*image.RGBA, string) {
	return s.panel, s.panelID
}

// Update advances navigation and keeps the focused panel current.
func (s *ViewingState) Update(dt float64) error {
	s.pollSecondary()
	if s.catalog.Poll(s.watcher) {
		s.log.Info("panels reloaded")
	}

	s.viewer.Frame(float32(dt))
	s.updatePanel()
	return nil
}

func (s *ViewingState) pollSecondary() {
	if s.config.Secondary == nil {
		return
	}
	var sec *assets.Secondary
	select {
	case v, ok := <-s.config.Secondary:
		s.config.Secondary = nil
		if !ok || v == nil {
			return
		}
		sec = v
	default:
		return
	}

	for name, img := range sec.Images {
		s.images[name] = img
	}
	if len(sec.Font) > 0 {
		r, err := content.NewRasterizer(sec.Font, s.config.Config.Content.PanelWidth)
		if err != nil {
			s.log.Warn("panel font rejected", zap.Error(err))
		} else {
			_ = s.rasterizer.Close()
			s.rasterizer = r
		}
	}
	s.fontGen++
	s.log.Info("secondary assets ready",
		zap.Bool("font", len(sec.Font) > 0),
		zap.Int("images", len(sec.Images)),
	)
}

// updatePanel renders the focused panel once the camera has arrived.
func (s *ViewingState) updatePanel() {
	id, focused := s.viewer.Focused()
	if !focused || s.viewer.Transitioning() {
		s.clearPanel()
		return
	}
	version := s.catalog.Version()
	if id == s.panelID && s.panel != nil && version == s.renderedVersion && s.fontGen == s.renderedFont {
		return
	}

	p, ok := s.catalog.Get(id)
	if !ok {
		s.clearPanel()
		return
	}
	img, err := s.rasterizer.Render(p, s.images[p.Image])
	if err != nil {
		s.log.Warn("panel not rendered", zap.String("id", id), zap.Error(err))
		s.clearPanel()
		return
	}
	s.panel = img
	s.panelID = id
	s.renderedVersion = version
	s.renderedFont = s.fontGen
	s.panelKey++
}

func (s *ViewingState) clearPanel() {
	if s.panel == nil {
		return
	}
	s.panel = nil
	s.panelID = ""
	s.panelKey++
}

// Render draws the room and the focused panel.
func (s *ViewingState) Render() error {
	if s.config.Renderer == nil {
		return nil
	}
	if s.labels == nil || s.labelsVersion != s.catalog.Version() {
		s.labels = s.buildLabels()
		s.labelsVersion = s.catalog.Version()
	}
	focused, _ := s.viewer.Focused()
	s.config.Renderer.DrawScene(Scene{
		Camera:   s.viewer.Camera(),
		Hotspots: s.viewer.Registry().Pickables(),
		Focused:  focused,
		Debug:    s.config.Config.Debug.ShowProxies,
		Labels:   s.labels,
		Panel:    s.panel,
		PanelKey: s.panelKey,
	})
	return nil
}

// buildLabels captions every hotspot with its panel title, anchored at
// the top of its volume, and the title volume with the room name.
func (s *ViewingState) buildLabels() []Label {
	pickables := s.viewer.Registry().Pickables()
	labels := make([]Label, 0, len(pickables))
	for _, h := range pickables {
		anchor := h.Volume.Position
		l := Label{ID: h.ID, Anchor: anchor, Title: h.IsTitle()}
		if l.Title {
			l.Text = s.config.Config.Window.Title
		} else {
			for _, c := range h.Volume.Corners() {
				if c.Y > anchor.Y {
					anchor.Y = c.Y
				}
			}
			l.Anchor = anchor
			l.Text = h.ID
			if p, ok := s.catalog.Get(h.ID); ok && p.Title != "" {
				l.Text = strings.Join(p.TitleLines(), " ")
			}
		}
		labels = append(labels, l)
	}
	return labels
}

// HandleInput forwards pointer and window events to the viewer.
func (s *ViewingState) HandleInput(event interface{}) error {
	switch e := event.(type) {
	case input.Click:
		p := s.viewer.HandleClick(e.X, e.Y)
		if p.Hit {
			s.log.Debug("pick", zap.String("id", p.ID), zap.Stringer("action", p.Decision.Action))
		}
	case input.Drag:
		s.viewer.HandleDrag(e.DX, e.DY)
	case input.Wheel:
		s.viewer.HandleZoom(e.Delta)
	case input.Resize:
		s.viewer.Resize(e.Width, e.Height)
	}
	return nil
}
