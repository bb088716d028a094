package picking

import (
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

// volume caches the inverse model matrix of a pickable hotspot.
type volume struct {
	id       string
	invModel math.Mat4
}

// Picker resolves rays to at most one hotspot. It has no side effects.
type Picker struct {
	volumes []volume
}

// NewPicker prepares the given volumes, in scene traversal order.
func NewPicker(pickables []hotspot.Hotspot) *Picker {
	p := &Picker{volumes: make([]volume, 0, len(pickables))}
	for _, h := range pickables {
		p.volumes = append(p.volumes, volume{id: h.ID, invModel: h.Volume.Matrix().Inverse()})
	}
	return p
}

// Pick returns the id of the nearest volume hit by the ray. On equal
// distances the volume earlier in traversal order wins.
func (p *Picker) Pick(ray Ray) (id string, ok bool) {
	best := float32(0)
	for _, v := range p.volumes {
		t, hit := ray.IntersectOBB(v.invModel)
		if !hit {
			continue
		}
		if !ok || t < best {
			id, best, ok = v.id, t, true
		}
	}
	return id, ok
}

// Len returns the number of pickable volumes.
func (p *Picker) Len() int {
	return len(p.volumes)
}
