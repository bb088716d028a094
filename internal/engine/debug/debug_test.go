package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vrtherapy/internal/hotspot"
	"github.com/Faultbox/vrtherapy/pkg/math"
)

func TestBoxWireframeEdges(t *testing.T) {
	box := hotspot.OrientedBox{Scale: math.Vec3{X: 2, Y: 2, Z: 2}}
	verts := BoxWireframe(box.Corners())
	require.Len(t, verts, BoxWireframeVertexCount*3)

	// Every edge of an axis-aligned cube is 2 long and parallel to one axis.
	for i := 0; i < len(verts); i += 6 {
		a := math.Vec3{X: verts[i], Y: verts[i+1], Z: verts[i+2]}
		b := math.Vec3{X: verts[i+3], Y: verts[i+4], Z: verts[i+5]}
		assert.InDelta(t, 2, a.Distance(b), 1e-5)
	}
}

func TestHotspotWireframes(t *testing.T) {
	reg, err := hotspot.RoomLayout()
	require.NoError(t, err)
	verts := HotspotWireframes(reg.Pickables())
	assert.Len(t, verts, 9*BoxWireframeVertexCount*3)
}

func TestFloorGrid(t *testing.T) {
	verts := FloorGrid(2, 1, -1)
	// 5 positions, two lines each, two vertices per line.
	require.Len(t, verts, 5*2*2*3)
	for i := 1; i < len(verts); i += 3 {
		assert.Equal(t, float32(-1), verts[i])
	}
	assert.Nil(t, FloorGrid(2, 0, 0))
}

func TestFromPixelsFlips(t *testing.T) {
	// 1x2 image: bottom row red, top row blue.
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	img, err := FromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).B)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 1).R)

	_, err = FromPixels(pixels, 2, 2)
	assert.Error(t, err)
}

func TestScreenshotsSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "room")
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	name, err := s.Save(make([]byte, 4*3*2), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "room_2024-03-01_12-30-00.000.png"), name)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}
