// Package tween interpolates vectors over time, driven by an external ticker.
package tween

import (
	"strings"

	"github.com/chewxy/math32"
)

// Ease maps linear progress in [0,1] to eased progress in [0,1].
type Ease func(p float32) float32

// Linear is the identity ease.
func Linear(p float32) float32 { return p }

// powerInOut returns the symmetric in-out curve of the given exponent.
func powerInOut(exp float32) Ease {
	return func(p float32) float32 {
		if p < 0.5 {
			return math32.Pow(2*p, exp) / 2
		}
		return 1 - math32.Pow(2*(1-p), exp)/2
	}
}

// Power1InOut, Power2InOut and Power3InOut follow the usual animation
// library naming, where powerN is an (N+1)-degree curve.
var (
	Power1InOut = powerInOut(2)
	Power2InOut = powerInOut(3)
	Power3InOut = powerInOut(4)
)

// ByName resolves names like "power3.inOut". Unknown names fall back to
// Power3InOut and report false.
func ByName(name string) (Ease, bool) {
	switch strings.ToLower(name) {
	case "linear", "none":
		return Linear, true
	case "power1.inout", "quad.inout":
		return Power1InOut, true
	case "power2.inout", "cubic.inout":
		return Power2InOut, true
	case "power3.inout", "quart.inout", "":
		return Power3InOut, true
	}
	return Power3InOut, false
}
