// Package navigation decides where the camera should go when a hotspot is
// picked and drives the timed camera transitions that get it there.
package navigation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/internal/logger"
)

// Action is what the focus machine asks the camera to do.
type Action int

const (
	// ActionNone leaves the camera alone.
	ActionNone Action = iota
	// ActionFocus moves to a hotspot's focused pose.
	ActionFocus
	// ActionReset returns to the default view.
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionFocus:
		return "focus"
	case ActionReset:
		return "reset"
	default:
		return "none"
	}
}

// Decision is the outcome of resolving one pick.
type Decision struct {
	Action  Action
	Hotspot hotspot.Hotspot // set for ActionFocus
}

// FocusState is either Default or Focused(id).
type FocusState struct {
	id      string
	focused bool
}

// Default is the unfocused state.
var Default = FocusState{}

// Focused returns the state focused on id.
func Focused(id string) FocusState {
	return FocusState{id: id, focused: true}
}

// Hotspot returns the focused hotspot id, if any.
func (s FocusState) Hotspot() (string, bool) {
	return s.id, s.focused
}

// IsDefault reports whether no hotspot has focus.
func (s FocusState) IsDefault() bool {
	return !s.focused
}

func (s FocusState) String() string {
	if !s.focused {
		return "Default"
	}
	return "Focused(" + s.id + ")"
}

// FocusMachine tracks which hotspot has focus.
type FocusMachine struct {
	registry *hotspot.Registry
	state    FocusState
	log      *zap.Logger
}

// NewFocusMachine starts in Default.
func NewFocusMachine(registry *hotspot.Registry) *FocusMachine {
	return &FocusMachine{
		registry: registry,
		log:      logger.Named("focus"),
	}
}

// State returns the current focus state.
func (m *FocusMachine) State() FocusState {
	return m.state
}

// Resolve applies a pick result (id, ok) and returns the transition to run.
func (m *FocusMachine) Resolve(id string, ok bool) Decision {
	if !ok {
		return Decision{Action: ActionNone}
	}

	prev := m.state
	var d Decision
	switch {
	case id == hotspot.TitleID:
		// Reset even when already Default so the camera really is home.
		m.state = Default
		d = Decision{Action: ActionReset}
	default:
		h, known := m.registry.Get(id)
		if !known {
			m.log.Warn("pick resolved to unknown hotspot", zap.String("id", id))
			return Decision{Action: ActionNone}
		}
		if cur, focused := prev.Hotspot(); focused && cur == id {
			m.state = Default
			d = Decision{Action: ActionReset}
		} else {
			m.state = Focused(id)
			d = Decision{Action: ActionFocus, Hotspot: h}
		}
	}

	m.log.Info("hotspot clicked",
		zap.String("id", id),
		zap.Stringer("from", prev),
		zap.Stringer("to", m.state),
		zap.Stringer("action", d.Action),
	)
	return d
}
