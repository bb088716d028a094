// Package main is the VR therapy room viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/app/states"
	"github.com/Faultbox/vrtherapy/internal/assets"
	"github.com/Faultbox/vrtherapy/internal/config"
	"github.com/Faultbox/vrtherapy/internal/engine/debug"
	"github.com/Faultbox/vrtherapy/internal/engine/input"
	"github.com/Faultbox/vrtherapy/internal/engine/renderer"
	"github.com/Faultbox/vrtherapy/internal/engine/window"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/logger"
)

func main() {
	// Parse CLI flags
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	registry, err := buildRegistry(cfg)
	if err != nil {
		logger.Fatal("invalid hotspot layout", zap.Error(err))
	}

	if path := config.DumpConfigPath(); path != "" {
		dumped := *cfg
		dumped.Hotspots = hotspot.ToConfig(registry)
		if err := dumped.SaveTo(path); err != nil {
			logger.Fatal("config not written", zap.Error(err))
		}
		logger.Info("config written", zap.String("path", path))
		return
	}

	if err := run(cfg, registry); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func buildRegistry(cfg *config.Config) (*hotspot.Registry, error) {
	if len(cfg.Hotspots) > 0 {
		return hotspot.FromConfig(cfg.Hotspots)
	}
	return hotspot.RoomLayout()
}

func run(cfg *config.Config, registry *hotspot.Registry) error {
	logger.Info("=== VR Therapy Room ===")

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("OpenGL init: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	width, height := win.DrawableSize()
	gl.Viewport(0, 0, int32(width), int32(height))

	rend, err := renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Close()

	source, err := assets.NewSource(cfg.Assets.Base)
	if err != nil {
		return fmt.Errorf("asset source: %w", err)
	}
	manager := assets.NewManager(source)
	defer manager.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sm := states.NewManager()
	defer sm.Close()
	sm.Change(states.NewLoadingState(states.LoadingConfig{
		Context:  ctx,
		Config:   cfg,
		Assets:   manager,
		Renderer: rend,
		Registry: registry,
		Width:    width,
		Height:   height,
	}, sm))

	shots := debug.NewScreenshots(cfg.Debug.ScreenshotDir, "vrtherapy")

	last := time.Now()
	for {
		for _, ev := range win.Poll() {
			switch e := ev.(type) {
			case window.Quit:
				return nil
			case window.KeyDown:
				switch e.Key {
				case sdl.K_ESCAPE:
					return nil
				case sdl.K_F12:
					saveScreenshot(rend, shots)
				}
				continue
			case input.Resize:
				rend.Resize(e.Width, e.Height)
			}
			if err := sm.HandleInput(ev); err != nil {
				logger.Warn("input error", zap.Error(err))
			}
		}

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		if err := sm.Update(dt); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		if err := sm.Render(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		win.SwapBuffers()
	}
}

func saveScreenshot(rend *renderer.Renderer, shots *debug.Screenshots) {
	pixels, w, h := rend.Capture()
	name, err := shots.Save(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}
