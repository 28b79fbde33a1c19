package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// DefaultFPS is the frame rate animations are stepped at.
const DefaultFPS = 60

// settle thresholds for position and velocity.
const (
	settleEpsilon = 1e-3
	// maxLegSeconds bounds a single spring leg so a badly tuned spring can
	// never keep the tick loop alive forever.
	maxLegSeconds = 4
)

// SpringConfig is expressed in physical terms (stiffness, damping, mass)
// and converted to harmonica's angular frequency and damping ratio.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// Spring presets.
var (
	// SpringDefault is the stock settle spring.
	SpringDefault = SpringConfig{Stiffness: 100, Damping: 10, Mass: 1}
	// SpringPulse is the bouncy overshoot used when a new step appears.
	SpringPulse = SpringConfig{Stiffness: 100, Damping: 5, Mass: 1}
	// SpringPressIn is the card press-down feedback (tension 40, friction 7).
	SpringPressIn = FromTensionFriction(40, 7)
	// SpringRelease is the card release (tension 40, friction 3).
	SpringRelease = FromTensionFriction(40, 3)
)

// Scale values used by the screens.
const (
	ScaleRest    = 1.0
	ScalePeak    = 1.1
	ScalePressed = 0.95
)

// FromTensionFriction converts origami-style tension/friction parameters to
// stiffness and damping.
func FromTensionFriction(tension, friction float64) SpringConfig {
	return SpringConfig{
		Stiffness: (tension-30)*3.62 + 194,
		Damping:   (friction-8)*3 + 25,
		Mass:      1,
	}
}

// AngularFrequency returns sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.mass())
}

// DampingRatio returns c / (2*sqrt(k*m)).
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.mass()))
}

func (c SpringConfig) mass() float64 {
	if c.Mass <= 0 {
		return 1
	}
	return c.Mass
}

func (c SpringConfig) spring(fps int) harmonica.Spring {
	return harmonica.NewSpring(harmonica.FPS(fps), c.AngularFrequency(), c.DampingRatio())
}

type leg struct {
	target float64
	spring harmonica.Spring
	frames int
}

// Value is a scalar driven by a chain of springs. The zero value is not
// useful; use NewValue.
type Value struct {
	pos  float64
	vel  float64
	fps  int
	legs []leg
}

// NewValue returns a value resting at rest.
func NewValue(rest float64, fps int) Value {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return Value{pos: rest, fps: fps}
}

// Pos returns the current position.
func (v Value) Pos() float64 {
	return v.pos
}

// Animating reports whether Step would still move the value.
func (v Value) Animating() bool {
	return len(v.legs) > 0
}

// Target returns the final resting target of the chain.
func (v Value) Target() float64 {
	if len(v.legs) == 0 {
		return v.pos
	}
	return v.legs[len(v.legs)-1].target
}

// SpringTo replaces any running animation with a spring toward target.
// Velocity is kept so interrupted motion stays continuous.
func (v *Value) SpringTo(target float64, cfg SpringConfig) {
	v.legs = []leg{{target: target, spring: cfg.spring(v.fps)}}
}

// Then queues a spring that starts once the current chain settles.
func (v *Value) Then(target float64, cfg SpringConfig) {
	v.legs = append(v.legs, leg{target: target, spring: cfg.spring(v.fps)})
}

// Step advances one frame and reports whether the value is still animating.
func (v *Value) Step() bool {
	if len(v.legs) == 0 {
		return false
	}
	l := &v.legs[0]
	v.pos, v.vel = l.spring.Update(v.pos, v.vel, l.target)
	l.frames++

	if (math.Abs(v.pos-l.target) < settleEpsilon && math.Abs(v.vel) < settleEpsilon) ||
		l.frames >= maxLegSeconds*v.fps {
		v.pos = l.target
		v.vel = 0
		v.legs = v.legs[1:]
	}
	return len(v.legs) > 0
}

// Finish jumps to the final target.
func (v *Value) Finish() {
	v.pos = v.Target()
	v.vel = 0
	v.legs = nil
}

// Pulse starts the step-change pulse: overshoot to ScalePeak, then settle
// back to ScaleRest.
func (v *Value) Pulse() {
	v.SpringTo(ScalePeak, SpringPulse)
	v.Then(ScaleRest, SpringDefault)
}

// PressIn starts the press-down feedback.
func (v *Value) PressIn() {
	v.SpringTo(ScalePressed, SpringPressIn)
}

// Release springs back to rest.
func (v *Value) Release() {
	v.SpringTo(ScaleRest, SpringRelease)
}
