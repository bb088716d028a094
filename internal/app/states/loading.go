package states

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/assets"
	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/engine/input"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/logger"
	"github.com/Faultbox/vrtherapy/internal/viewer"
)

// LoadingConfig contains everything the loading state needs.
type LoadingConfig struct {
	Context  context.Context
	Config   *config.Config
	Assets   *assets.Manager
	Renderer Renderer

	// Registry is handed to the viewer; nil builds it from Config.
	Registry *hotspot.Registry

	Width  int
	Height int
}

// LoadingState fetches the room model and shows progress. A failed load
// leaves the indicator on screen; there is no retry.
type LoadingState struct {
	config  LoadingConfig
	manager *Manager

	main      <-chan assets.Result
	secondary <-chan *assets.Secondary

	loaded atomic.Int64
	total  atomic.Int64

	status string
	err    error

	startTime time.Time
}

// NewLoadingState creates a new loading state.
func NewLoadingState(cfg LoadingConfig, manager *Manager) *LoadingState {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Config == nil {
		cfg.Config = config.Default()
	}
	return &LoadingState{
		config:  cfg,
		manager: manager,
		status:  "Loading...",
	}
}

// Enter starts the main and secondary loads.
func (s *LoadingState) Enter() error {
	s.startTime = time.Now()
	s.err = nil
	s.loaded.Store(0)
	s.total.Store(0)

	a := s.config.Config.Assets
	logger.Info("entering LoadingState", zap.String("model", a.Model), zap.String("base", a.Base))

	s.main = s.config.Assets.Load(s.config.Context, a.Model, func(p assets.Progress) {
		s.loaded.Store(p.Loaded)
		s.total.Store(p.Total)
	})
	s.secondary = s.config.Assets.LoadSecondaryAsync(s.config.Context, a.Font, a.Images)
	return nil
}

// Exit is called when leaving this state.
func (s *LoadingState) Exit() error {
	return nil
}

// Progress returns the main asset download progress.
func (s *LoadingState) Progress() assets.Progress {
	return assets.Progress{Loaded: s.loaded.Load(), Total: s.total.Load()}
}

// Percent returns the main asset download progress in percent.
func (s *LoadingState) Percent() int {
	return s.Progress().Percent()
}

// Status returns the indicator text.
func (s *LoadingState) Status() string {
	if s.err != nil {
		return "Failed to load the room"
	}
	return fmt.Sprintf("%s %d%%", s.status, s.Percent())
}

// Err returns the load failure, if any.
func (s *LoadingState) Err() error {
	return s.err
}

// Update polls the main load and switches to viewing once it resolves.
func (s *LoadingState) Update(dt float64) error {
	if s.err != nil || s.main == nil {
		return nil
	}

	var res assets.Result
	select {
	case r, ok := <-s.main:
		if !ok {
			return nil
		}
		res = r
	default:
		return nil
	}

	if res.Err != nil {
		s.fail(res.Err)
		return nil
	}

	glb, err := assets.ParseGLB(res.Data)
	if err != nil {
		s.fail(fmt.Errorf("%s: %w", res.Name, err))
		return nil
	}

	logger.Info("room model loaded",
		zap.String("name", res.Name),
		zap.Int("bytes", len(res.Data)),
		zap.Int("json_bytes", len(glb.JSON)),
		zap.Int("bin_bytes", len(glb.BIN)),
		zap.Duration("elapsed", time.Since(s.startTime)),
	)

	v, err := viewer.New(viewer.Options{
		Config:   s.config.Config,
		Registry: s.config.Registry,
		Width:    s.config.Width,
		Height:   s.config.Height,
	})
	if err != nil {
		return err
	}

	s.manager.Change(NewViewingState(ViewingConfig{
		Config:    s.config.Config,
		Viewer:    v,
		Model:     glb,
		Secondary: s.secondary,
		Renderer:  s.config.Renderer,
	}))
	return nil
}

func (s *LoadingState) fail(err error) {
	s.err = err
	logger.Error("room model failed to load", zap.Error(err))
}

// Render draws the loading indicator.
func (s *LoadingState) Render() error {
	if s.config.Renderer != nil {
		s.config.Renderer.DrawLoading(s.Percent(), s.Status(), s.err != nil)
	}
	return nil
}

// HandleInput tracks window size so the viewer starts with the right aspect.
func (s *LoadingState) HandleInput(event interface{}) error {
	if e, ok := event.(input.Resize); ok && e.Width > 0 && e.Height > 0 {
		s.config.Width, s.config.Height = e.Width, e.Height
	}
	return nil
}
