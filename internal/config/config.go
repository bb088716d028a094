// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Vec3 is a YAML-friendly [x, y, z] triple.
type Vec3 [3]float32

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Navigation NavigationConfig `yaml:"navigation"`
	Transition TransitionConfig `yaml:"transition"`
	Assets     AssetsConfig     `yaml:"assets"`
	Content    ContentConfig    `yaml:"content"`
	Debug      DebugConfig      `yaml:"debug"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Hotspots replaces the built-in room layout when non-empty.
	Hotspots []HotspotConfig `yaml:"hotspots,omitempty"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the perspective camera and its default pose.
type CameraConfig struct {
	FovDeg        float32 `yaml:"fov_deg"`
	Near          float32 `yaml:"near"`
	Far           float32 `yaml:"far"`
	DefaultPose   Vec3    `yaml:"default_pose"`
	DefaultLookAt Vec3    `yaml:"default_look_at"`
}

// NavigationConfig holds orbit navigation bounds and feel.
type NavigationConfig struct {
	MinDistance   float32 `yaml:"min_distance"`
	MaxDistance   float32 `yaml:"max_distance"`
	MinPolarDeg   float32 `yaml:"min_polar_deg"`
	MaxPolarDeg   float32 `yaml:"max_polar_deg"`
	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
}

// TransitionConfig holds camera transition timing.
type TransitionConfig struct {
	Duration   float32 `yaml:"duration"`
	Ease       string  `yaml:"ease"`
	FocusSteps int     `yaml:"focus_steps"`
	ResetSteps int     `yaml:"reset_steps"`
	FocusSlack float32 `yaml:"focus_slack"`
}

// AssetsConfig holds asset locations. Base may be a directory or an http(s) URL.
type AssetsConfig struct {
	Base   string   `yaml:"base"`
	Model  string   `yaml:"model"`
	Font   string   `yaml:"font"`
	Images []string `yaml:"images"`
}

// ContentConfig holds hotspot caption settings.
type ContentConfig struct {
	// File optionally overrides the built-in captions.
	File       string `yaml:"file"`
	PanelWidth int    `yaml:"panel_width"`
}

// DebugConfig holds developer switches.
type DebugConfig struct {
	ShowProxies   bool   `yaml:"show_proxies"`
	WatchContent  bool   `yaml:"watch_content"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// HotspotConfig describes one interactive region.
type HotspotConfig struct {
	ID            string  `yaml:"id"`
	Scale         Vec3    `yaml:"scale"`
	Position      Vec3    `yaml:"position"`
	Axis          string  `yaml:"axis,omitempty"`
	AngleDeg      float32 `yaml:"angle_deg,omitempty"`
	FocusedPose   Vec3    `yaml:"focused_pose"`
	FocusedLookAt Vec3    `yaml:"focused_look_at"`
}

// Default returns a Config matching the original room.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "VR Therapy",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			FovDeg:        75,
			Near:          0.1,
			Far:           1000,
			DefaultPose:   Vec3{-6, 4, 6},
			DefaultLookAt: Vec3{0, 0, 0},
		},
		Navigation: NavigationConfig{
			MinDistance:   4,
			MaxDistance:   15,
			MinPolarDeg:   30,
			MaxPolarDeg:   90,
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
		},
		Transition: TransitionConfig{
			Duration:   2,
			Ease:       "power3.inOut",
			FocusSteps: 25,
			ResetSteps: 50,
			FocusSlack: 2,
		},
		Assets: AssetsConfig{
			Base:  "assets",
			Model: "VR Therapy Scene.glb",
			Images: []string{
				"img/vr-6770800_640.png",
				"img/trophy-png-23.png",
				"img/1377892.png",
				"img/Oculus-Rift-CV1-Headset-Front_with_transparent_background.png",
			},
		},
		Content: ContentConfig{
			PanelWidth: 512,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ErrInvalid is wrapped by all validation failures.
var ErrInvalid = errors.New("invalid config")

// Validate checks values the viewer cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera near/far %v/%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Navigation.MinDistance < 0 || c.Navigation.MaxDistance < c.Navigation.MinDistance:
		return fmt.Errorf("%w: orbit distance %v..%v", ErrInvalid, c.Navigation.MinDistance, c.Navigation.MaxDistance)
	case c.Navigation.MaxPolarDeg < c.Navigation.MinPolarDeg:
		return fmt.Errorf("%w: polar angle %v..%v", ErrInvalid, c.Navigation.MinPolarDeg, c.Navigation.MaxPolarDeg)
	case c.Transition.Duration <= 0:
		return fmt.Errorf("%w: transition duration %v", ErrInvalid, c.Transition.Duration)
	case c.Transition.FocusSteps <= 0 || c.Transition.ResetSteps <= 0:
		return fmt.Errorf("%w: transition steps %d/%d", ErrInvalid, c.Transition.FocusSteps, c.Transition.ResetSteps)
	case c.Assets.Model == "":
		return fmt.Errorf("%w: assets.model is empty", ErrInvalid)
	}
	return nil
}
