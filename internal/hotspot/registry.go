package hotspot

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/logger"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

// Registry is the immutable-after-startup table of hotspots.
// It is not safe for concurrent registration; the render thread owns it.
type Registry struct {
	hotspots []Hotspot
	index    map[string]int
	title    *Hotspot
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a hotspot. Duplicate ids and malformed volumes are rejected.
func (r *Registry) Register(id string, volume OrientedBox, focusedPose, focusedLookAt math.Vec3) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidVolume)
	}
	if r.has(id) {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if id == TitleID {
		return fmt.Errorf("%w: %q is reserved for the title", ErrDuplicateID, id)
	}
	if err := volume.Validate(); err != nil {
		return fmt.Errorf("hotspot %q: %w", id, err)
	}
	if !focusedPose.IsFinite() || !focusedLookAt.IsFinite() {
		return fmt.Errorf("hotspot %q: %w: non-finite focused pose", id, ErrInvalidVolume)
	}

	r.index[id] = len(r.hotspots)
	r.hotspots = append(r.hotspots, Hotspot{
		ID:            id,
		Volume:        volume,
		FocusedPose:   focusedPose,
		FocusedLookAt: focusedLookAt,
	})

	logger.Debug("hotspot registered",
		zap.String("id", id),
		zap.Any("position", volume.Position),
		zap.Any("focusedPose", focusedPose),
	)
	return nil
}

// SetTitle registers the reset volume. It may be set once.
func (r *Registry) SetTitle(volume OrientedBox) error {
	if r.title != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateID, TitleID)
	}
	if err := volume.Validate(); err != nil {
		return fmt.Errorf("hotspot %q: %w", TitleID, err)
	}
	r.title = &Hotspot{ID: TitleID, Volume: volume}
	return nil
}

func (r *Registry) has(id string) bool {
	_, ok := r.index[id]
	return ok || (r.title != nil && id == TitleID)
}

// All returns the focusable hotspots in registration order.
func (r *Registry) All() []Hotspot {
	out := make([]Hotspot, len(r.hotspots))
	copy(out, r.hotspots)
	return out
}

// Get looks up a focusable hotspot by id.
func (r *Registry) Get(id string) (Hotspot, bool) {
	i, ok := r.index[id]
	if !ok {
		return Hotspot{}, false
	}
	return r.hotspots[i], true
}

// Title returns the reset volume, if one was registered.
func (r *Registry) Title() (Hotspot, bool) {
	if r.title == nil {
		return Hotspot{}, false
	}
	return *r.title, true
}

// Pickables returns every volume in scene traversal order: the hotspots,
// then the title (it is added to the scene once the font has loaded).
func (r *Registry) Pickables() []Hotspot {
	out := r.All()
	if r.title != nil {
		out = append(out, *r.title)
	}
	return out
}

// Len returns the number of focusable hotspots.
func (r *Registry) Len() int {
	return len(r.hotspots)
}
