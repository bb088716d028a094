package math

import (
	"math"
	"testing"
)

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{0.45, 1.35, -2.6}
	b := Vec3{0.45, 0.35, -2.6}
	got := a.Distance(b)
	if abs(got-1) > 1e-6 {
		t.Errorf("Vec3.Distance() = %v, want 1", got)
	}
}

func TestVec3AtSetAt(t *testing.T) {
	var v Vec3
	for i := 0; i < 3; i++ {
		v.SetAt(i, float32(i+1))
	}
	if v != (Vec3{1, 2, 3}) {
		t.Fatalf("SetAt produced %v", v)
	}
	for i := 0; i < 3; i++ {
		if v.At(i) != float32(i+1) {
			t.Errorf("At(%d) = %v, want %v", i, v.At(i), i+1)
		}
	}
}

func TestVec3LerpEndpoints(t *testing.T) {
	a := Vec3{-6, 4, 6}
	b := Vec3{1, 2, 3}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	if (Vec3{float32(math.NaN()), 0, 0}).IsFinite() {
		t.Error("NaN vector reported as finite")
	}
	if (Vec3{0, float32(math.Inf(1)), 0}).IsFinite() {
		t.Error("Inf vector reported as finite")
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	tests := []Vec3{
		{-6, 4, 6},
		{0, 1, 0.001},
		{3, 0, -2},
	}
	for _, v := range tests {
		got := SphericalFromVec3(v).Vec3()
		if got.Distance(v) > 1e-4 {
			t.Errorf("Spherical round trip of %v = %v", v, got)
		}
	}
}

func TestSphericalPolarAngle(t *testing.T) {
	s := SphericalFromVec3(Vec3{0, 5, 0})
	if s.Phi != 0 {
		t.Errorf("Phi straight up = %v, want 0", s.Phi)
	}
	s = SphericalFromVec3(Vec3{5, 0, 0})
	if abs(s.Phi-float32(math.Pi/2)) > 1e-6 {
		t.Errorf("Phi on horizon = %v, want pi/2", s.Phi)
	}
}
