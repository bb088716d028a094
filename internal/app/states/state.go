// Package states implements the application state machine: loading the
// room, then viewing it.
package states

import (
	"image"

	"github.com/Faultbox/vrtherapy/internal/engine/camera"
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

// State represents an application state (loading, viewing).
type State interface {
	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// Render is called every frame to draw the state.
	Render() error

	// HandleInput processes input events.
	HandleInput(event interface{}) error
}

// Renderer draws what the states describe. Implementations own all GPU
// resources; states never touch the graphics API directly.
type Renderer interface {
	DrawLoading(percent int, status string, failed bool)
	DrawScene(scene Scene)
}

// Scene is one frame of the room as the renderer should draw it.
type Scene struct {
	Camera *camera.PerspectiveCamera

	// Hotspots holds every pickable volume, title last. They are always
	// outlined; Debug makes the outlines bright.
	Hotspots []hotspot.Hotspot
	Focused  string
	Debug    bool

	// Labels are captions anchored in the room, one per hotspot plus the
	// room title.
	Labels []Label

	// Panel may be nil; PanelKey changes whenever the panel image does.
	Panel    *image.RGBA
	PanelKey uint64
}

// Label is a caption drawn at the screen position of Anchor.
type Label struct {
	ID     string
	Text   string
	Anchor math.Vec3
	Title  bool
}

// Manager manages state transitions.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change for the next Update.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// HandleInput forwards an event to the current state.
func (m *Manager) HandleInput(event interface{}) error {
	if m.current != nil {
		return m.current.HandleInput(event)
	}
	return nil
}

// Close exits the current state.
func (m *Manager) Close() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
