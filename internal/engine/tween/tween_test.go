package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vrtherapy/pkg/math"
)

func TestEaseEndpoints(t *testing.T) {
	for name, ease := range map[string]Ease{
		"linear": Linear,
		"power1": Power1InOut,
		"power2": Power2InOut,
		"power3": Power3InOut,
	} {
		assert.Equal(t, float32(0), ease(0), name)
		assert.Equal(t, float32(1), ease(1), name)
		assert.InDelta(t, 0.5, ease(0.5), 1e-6, name)
	}
}

func TestPower3InOutIsQuartic(t *testing.T) {
	// (2*0.25)^4 / 2
	assert.InDelta(t, 0.03125, Power3InOut(0.25), 1e-7)
	assert.InDelta(t, 1-0.03125, Power3InOut(0.75), 1e-6)
}

func TestEaseMonotonic(t *testing.T) {
	prev := float32(0)
	for i := 1; i <= 100; i++ {
		v := Power3InOut(float32(i) / 100)
		require.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestByName(t *testing.T) {
	e, ok := ByName("power3.inOut")
	assert.True(t, ok)
	assert.Equal(t, Power3InOut(0.3), e(0.3))

	_, ok = ByName("elastic.out")
	assert.False(t, ok)
}

func TestTweenReachesEndExactly(t *testing.T) {
	pos := math.Vec3{X: -6, Y: 4, Z: 6}
	end := math.Vec3{X: 0.45, Y: 1.35, Z: -2.6}

	updates, completes := 0, 0
	tw := To(&pos, end, 2, Options{
		OnUpdate:   func() { updates++ },
		OnComplete: func() { completes++ },
	})

	steps := 0
	for !tw.Step(1.0 / 60) {
		steps++
		require.Less(t, steps, 1000)
	}

	assert.Equal(t, end, pos)
	assert.Equal(t, 1, completes)
	assert.Equal(t, steps+1, updates)
	assert.True(t, tw.Done())

	// Further steps are no-ops.
	tw.Step(1)
	assert.Equal(t, 1, completes)
}

func TestTweenReadsStartOnFirstStep(t *testing.T) {
	pos := math.Vec3{}
	tw := To(&pos, math.Vec3{X: 10}, 1, Options{Ease: Linear})

	pos = math.Vec3{X: 5} // moved before the first tick
	tw.Step(0.5)
	assert.InDelta(t, 7.5, pos.X, 1e-6)
}

func TestTweenNoMovementIsBitExact(t *testing.T) {
	pos := math.Vec3{X: -6, Y: 4, Z: 6}
	tw := To(&pos, pos, 2, Options{
		OnUpdate: func() {
			assert.Equal(t, math.Vec3{X: -6, Y: 4, Z: 6}, pos)
		},
	})
	for !tw.Step(0.1) {
	}
	assert.Equal(t, math.Vec3{X: -6, Y: 4, Z: 6}, pos)
}

func TestTickerDropsFinished(t *testing.T) {
	var a, b math.Vec3
	var k Ticker
	k.Add(To(&a, math.Vec3{X: 1}, 0.5, Options{}))
	k.Add(To(&b, math.Vec3{X: 1}, 2, Options{}))

	k.Tick(1)
	assert.Equal(t, 1, k.Active())
	assert.Equal(t, float32(1), a.X)

	k.Tick(1)
	assert.Equal(t, 0, k.Active())
	assert.Equal(t, float32(1), b.X)
}
