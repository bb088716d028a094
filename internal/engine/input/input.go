// Package input turns raw pointer and window events into viewer gestures.
package input

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// ClickSlop is how far the pointer may travel, in pixels, between press and
// release for the release to still count as a click.
const ClickSlop = 4

// Click is a primary-button press and release at drawable coordinates.
type Click struct {
	X, Y float32
}

// Drag is pointer motion with a rotate button held.
type Drag struct {
	DX, DY float32
}

// Wheel is a scroll step; positive zooms in.
type Wheel struct {
	Delta float32
}

// Resize reports a new drawable size.
type Resize struct {
	Width, Height int
}

// Pointer tracks button state and emits Click and Drag gestures.
type Pointer struct {
	held   Button
	travel float32
	lastX  float32
	lastY  float32
}

// Held reports the button currently held, or 0.
func (p *Pointer) Held() Button {
	return p.held
}

// Press records a button going down. Only the left and right buttons rotate.
func (p *Pointer) Press(x, y float32, b Button) {
	if b != ButtonLeft && b != ButtonRight {
		return
	}
	p.held = b
	p.travel = 0
	p.lastX, p.lastY = x, y
}

// Move returns a Drag while a button is held.
func (p *Pointer) Move(x, y float32) (Drag, bool) {
	if p.held == 0 {
		return Drag{}, false
	}
	d := Drag{DX: x - p.lastX, DY: y - p.lastY}
	p.lastX, p.lastY = x, y
	p.travel += abs(d.DX) + abs(d.DY)
	return d, true
}

// Release returns a Click when the left button comes up without having
// travelled further than ClickSlop.
func (p *Pointer) Release(x, y float32, b Button) (Click, bool) {
	if b != p.held {
		return Click{}, false
	}
	p.held = 0
	if b != ButtonLeft || p.travel > ClickSlop {
		return Click{}, false
	}
	return Click{X: x, Y: y}, true
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
