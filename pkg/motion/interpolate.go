// Package motion holds the pure tweening functions behind the UI: clamped
// interpolation of scroll offsets, spring-driven values and progressive
// text reveal. Nothing here knows about Bubble Tea; models feed inputs in
// and read values out.
package motion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Range is a closed interval. From may be greater than To for output ranges.
type Range struct {
	From float64
	To   float64
}

// Interpolator maps an input range linearly onto an output range and clamps
// at both ends.
type Interpolator struct {
	in  Range
	out Range
	pl  interp.PiecewiseLinear
}

// NewInterpolator builds an interpolator. The input range must be strictly
// increasing.
func NewInterpolator(in, out Range) (Interpolator, error) {
	if !(in.From < in.To) {
		return Interpolator{}, fmt.Errorf("input range [%g, %g] is not increasing", in.From, in.To)
	}
	ip := Interpolator{in: in, out: out}
	if err := ip.pl.Fit([]float64{in.From, in.To}, []float64{out.From, out.To}); err != nil {
		return Interpolator{}, fmt.Errorf("fitting interpolation: %w", err)
	}
	return ip, nil
}

// At returns the interpolated value for x.
func (ip Interpolator) At(x float64) float64 {
	if math.IsNaN(x) || x <= ip.in.From {
		return ip.out.From
	}
	if x >= ip.in.To {
		return ip.out.To
	}
	return ip.pl.Predict(x)
}

// HeaderConfig describes how the viewer header collapses as the body
// scrolls. Heights are in terminal rows, Threshold in scrolled lines.
type HeaderConfig struct {
	Expanded  int
	Collapsed int
	Threshold float64
}

// DefaultHeaderConfig mirrors the 22%-to-10% collapse over the first 100
// scroll units, scaled to a typical terminal.
func DefaultHeaderConfig() HeaderConfig {
	return HeaderConfig{Expanded: 7, Collapsed: 3, Threshold: 6}
}

// Header is a ready-to-use header height curve.
type Header struct {
	ip Interpolator
}

// NewHeader validates cfg and builds its curve.
func NewHeader(cfg HeaderConfig) (Header, error) {
	if cfg.Collapsed < 1 {
		return Header{}, fmt.Errorf("collapsed header height must be at least 1, got %d", cfg.Collapsed)
	}
	if cfg.Expanded < cfg.Collapsed {
		return Header{}, fmt.Errorf("expanded header height %d is below collapsed height %d", cfg.Expanded, cfg.Collapsed)
	}
	ip, err := NewInterpolator(
		Range{From: 0, To: cfg.Threshold},
		Range{From: float64(cfg.Expanded), To: float64(cfg.Collapsed)},
	)
	if err != nil {
		return Header{}, err
	}
	return Header{ip: ip}, nil
}

// Height returns the header height in rows for a scroll offset.
func (h Header) Height(offset float64) int {
	return int(math.Round(h.ip.At(offset)))
}

// HeaderHeight is a convenience for one-off lookups; invalid configs fall
// back to DefaultHeaderConfig.
func HeaderHeight(cfg HeaderConfig, offset float64) int {
	h, err := NewHeader(cfg)
	if err != nil {
		h, _ = NewHeader(DefaultHeaderConfig())
	}
	return h.Height(offset)
}
