package picking

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

func TestNormalizePointer(t *testing.T) {
	tests := []struct {
		x, y float32
		want math.Vec2
	}{
		{0, 0, math.Vec2{X: -1, Y: 1}},
		{800, 600, math.Vec2{X: 1, Y: -1}},
		{400, 300, math.Vec2{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		got := NormalizePointer(tt.x, tt.y, 800, 600)
		if got != tt.want {
			t.Errorf("NormalizePointer(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{Z: 5}
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(float32(gomath.Pi/3), 4.0/3.0, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	ray := ScreenToRay(400, 300, 800, 600, inv)

	assert.InDelta(t, 0, ray.Direction.X, 1e-4)
	assert.InDelta(t, 0, ray.Direction.Y, 1e-4)
	assert.InDelta(t, -1, ray.Direction.Z, 1e-4)
	// Origin sits on the near plane in front of the eye.
	assert.InDelta(t, 4.9, ray.Origin.Z, 1e-3)
}

func TestScreenToRayUpperHalfPointsUp(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(float32(gomath.Pi/3), 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	ray := ScreenToRay(300, 50, 600, 600, inv)
	assert.Greater(t, ray.Direction.Y, float32(0))
}

func TestIntersectAABB(t *testing.T) {
	box := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"hit front", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}, true, 4},
		{"miss parallel", Ray{Origin: math.Vec3{X: 2, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
		{"behind origin", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}, false, 0},
		{"inside exits", Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.wantT, got, 1e-6)
			}
		})
	}
}

func TestIntersectOBBKeepsWorldDistance(t *testing.T) {
	box := hotspot.OrientedBox{
		Scale:    math.Vec3{X: 4, Y: 0.2, Z: 4},
		Position: math.Vec3{Y: 1},
	}
	ray := Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: -1}}

	got, hit := ray.IntersectOBB(box.Matrix().Inverse())
	require.True(t, hit)
	// Top face at y = 1.1.
	assert.InDelta(t, 3.9, got, 1e-5)
}

func TestIntersectOBBRotated(t *testing.T) {
	// Rotated 90 degrees about Z: the thin axis becomes X.
	box := hotspot.OrientedBox{
		Scale: math.Vec3{X: 1.6, Y: 0.1, Z: 1.6},
		Axis:  math.AxisZ,
		Angle: float32(gomath.Pi / 2),
	}
	inv := box.Matrix().Inverse()

	fromSide := Ray{Origin: math.Vec3{X: -3, Y: 0.7}, Direction: math.Vec3{X: 1}}
	_, hit := fromSide.IntersectOBB(inv)
	assert.True(t, hit, "ray along X should hit the panel face")

	above := Ray{Origin: math.Vec3{Y: 3, X: 0.2}, Direction: math.Vec3{Y: -1}}
	_, hit = above.IntersectOBB(inv)
	assert.False(t, hit, "panel is only 0.1 thick along X")
}

func TestPickerNearestWins(t *testing.T) {
	r := hotspot.NewRegistry()
	unit := math.Vec3{X: 1, Y: 1, Z: 1}
	require.NoError(t, r.Register("far", hotspot.OrientedBox{Scale: unit, Position: math.Vec3{Z: -5}}, math.Vec3{}, math.Vec3{}))
	require.NoError(t, r.Register("near", hotspot.OrientedBox{Scale: unit, Position: math.Vec3{Z: -2}}, math.Vec3{}, math.Vec3{}))

	p := NewPicker(r.Pickables())
	id, ok := p.Pick(Ray{Origin: math.Vec3{}, Direction: math.Vec3{Z: -1}})
	require.True(t, ok)
	assert.Equal(t, "near", id)
}

func TestPickerTieKeepsTraversalOrder(t *testing.T) {
	r := hotspot.NewRegistry()
	unit := math.Vec3{X: 1, Y: 1, Z: 1}
	require.NoError(t, r.Register("first", hotspot.OrientedBox{Scale: unit, Position: math.Vec3{Z: -2}}, math.Vec3{}, math.Vec3{}))
	require.NoError(t, r.Register("second", hotspot.OrientedBox{Scale: unit, Position: math.Vec3{Z: -2}}, math.Vec3{}, math.Vec3{}))

	id, ok := NewPicker(r.Pickables()).Pick(Ray{Direction: math.Vec3{Z: -1}})
	require.True(t, ok)
	assert.Equal(t, "first", id)
}

func TestPickerMiss(t *testing.T) {
	r, err := hotspot.RoomLayout()
	require.NoError(t, err)

	id, ok := NewPicker(r.Pickables()).Pick(Ray{Origin: math.Vec3{Y: 50}, Direction: math.Vec3{Y: 1}})
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestPickerFromFocusedPoseResolvesEachHotspot(t *testing.T) {
	r, err := hotspot.RoomLayout()
	require.NoError(t, err)
	p := NewPicker(r.Pickables())

	for _, h := range r.All() {
		t.Run(h.ID, func(t *testing.T) {
			ray := Ray{
				Origin:    h.FocusedPose,
				Direction: h.Volume.Position.Sub(h.FocusedPose).Normalize(),
			}
			id, ok := p.Pick(ray)
			require.True(t, ok)
			assert.Equal(t, h.ID, id)
		})
	}
}

func TestPickerTitle(t *testing.T) {
	r, err := hotspot.RoomLayout()
	require.NoError(t, err)
	title, _ := r.Title()

	ray := Ray{Origin: title.Volume.Position.Add(math.Vec3{Y: 3}), Direction: math.Vec3{Y: -1}}
	id, ok := NewPicker(r.Pickables()).Pick(ray)
	require.True(t, ok)
	assert.Equal(t, hotspot.TitleID, id)
}
