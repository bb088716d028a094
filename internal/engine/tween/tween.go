package tween

import "github.com/Faultbox/vrtherapy/pkg/math"

// Tween drives a vector toward an end value over a fixed duration.
type Tween struct {
	target   *math.Vec3
	start    math.Vec3
	end      math.Vec3
	duration float32
	elapsed  float32
	ease     Ease
	started  bool
	done     bool

	onUpdate   func()
	onComplete func()
}

// Options configures callbacks for To.
type Options struct {
	Ease       Ease
	OnUpdate   func()
	OnComplete func()
}

// To creates a tween moving *target to end over duration. The start value
// is read on the first Step, not here.
func To(target *math.Vec3, end math.Vec3, duration float32, opts Options) *Tween {
	if opts.Ease == nil {
		opts.Ease = Power3InOut
	}
	return &Tween{
		target:     target,
		end:        end,
		duration:   duration,
		ease:       opts.Ease,
		onUpdate:   opts.OnUpdate,
		onComplete: opts.OnComplete,
	}
}

// Step advances the tween by dt, writes the target and fires callbacks.
// It returns true once the tween has completed.
func (t *Tween) Step(dt float32) bool {
	if t.done {
		return true
	}
	if !t.started {
		t.start = *t.target
		t.started = true
	}

	t.elapsed += dt
	p := float32(1)
	if t.duration > 0 && t.elapsed < t.duration {
		p = t.elapsed / t.duration
	}

	if p >= 1 {
		*t.target = t.end
	} else {
		*t.target = t.start.Lerp(t.end, t.ease(p))
	}

	if t.onUpdate != nil {
		t.onUpdate()
	}
	if p >= 1 {
		t.done = true
		if t.onComplete != nil {
			t.onComplete()
		}
	}
	return t.done
}

// Done reports whether the tween has completed.
func (t *Tween) Done() bool {
	return t.done
}

// Ticker advances a set of tweens once per frame.
type Ticker struct {
	active []*Tween
}

// Add schedules a tween.
func (k *Ticker) Add(t *Tween) {
	k.active = append(k.active, t)
}

// Tick advances every active tween and drops completed ones. Tweens added
// by callbacks during Tick start on the next Tick.
func (k *Ticker) Tick(dt float32) {
	current := k.active
	k.active = nil
	for _, t := range current {
		if !t.Step(dt) {
			k.active = append(k.active, t)
		}
	}
}

// Active returns the number of running tweens.
func (k *Ticker) Active() int {
	return len(k.active)
}
