// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

// BoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxWireframeVertexCount = 24

// boxEdges lists corner index pairs that differ in exactly one axis bit,
// matching the corner order of OrientedBox.Corners.
var boxEdges = func() [12][2]int {
	var edges [12][2]int
	n := 0
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				edges[n] = [2]int{i, i | bit}
				n++
			}
		}
	}
	return edges
}()

// BoxWireframe creates line vertices for a box given its eight corners.
// Format: [x, y, z] per vertex, two vertices per edge.
func BoxWireframe(corners [8]math.Vec3) []float32 {
	out := make([]float32, 0, BoxWireframeVertexCount*3)
	for _, e := range boxEdges {
		a, b := corners[e[0]], corners[e[1]]
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}

// HotspotWireframes concatenates the wireframes of every hotspot volume.
func HotspotWireframes(hotspots []hotspot.Hotspot) []float32 {
	out := make([]float32, 0, len(hotspots)*BoxWireframeVertexCount*3)
	for _, h := range hotspots {
		out = append(out, BoxWireframe(h.Volume.Corners())...)
	}
	return out
}

// FloorGrid generates line vertices for a square grid centred on the
// origin at height y, with lines every step units out to ±halfExtent.
func FloorGrid(halfExtent, step, y float32) []float32 {
	if step <= 0 || halfExtent <= 0 {
		return nil
	}
	n := int(halfExtent / step)
	out := make([]float32, 0, (2*n+1)*2*2*3)
	for i := -n; i <= n; i++ {
		c := float32(i) * step
		out = append(out,
			c, y, -halfExtent, c, y, halfExtent,
			-halfExtent, y, c, halfExtent, y, c,
		)
	}
	return out
}
