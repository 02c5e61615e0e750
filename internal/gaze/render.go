package gaze

import (
	"math"
	"strconv"
	"time"
)

const (
	fadeDuration = 10 * time.Second
	minOpacity   = 0.3
	strokeWidth  = 2
	// heatmapSpread is the gradient radius in multiples of the dot radius.
	heatmapSpread = 3
)

// RGBA is a CSS-style color with 8-bit channels and a [0,1] alpha.
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// CSS formats the color as an rgba() expression.
func (c RGBA) CSS() string {
	return "rgba(" + strconv.Itoa(int(c.R)) + ", " + strconv.Itoa(int(c.G)) + ", " +
		strconv.Itoa(int(c.B)) + ", " + strconv.FormatFloat(c.A, 'f', -1, 64) + ")"
}

var (
	dotColor       = RGBA{R: 244, G: 63, B: 94}
	dotStrokeColor = RGBA{R: 255, G: 255, B: 255}

	heatmapStops = []GradientStop{
		{Offset: 0, Color: RGBA{R: 255, G: 0, B: 0, A: 0.8}},
		{Offset: 0.5, Color: RGBA{R: 255, G: 255, B: 0, A: 0.4}},
		{Offset: 1, Color: RGBA{R: 255, G: 255, B: 0, A: 0}},
	}
)

// Dot is a filled and stroked circle.
type Dot struct {
	X         float64
	Y         float64
	Radius    float64
	Fill      RGBA
	Stroke    RGBA
	LineWidth float64
}

// GradientStop is a color at a fractional offset of a gradient radius.
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  RGBA    `json:"color"`
}

// RadialGradient is a gradient centred on (X, Y) from radius 0 to Radius,
// painted over the square that bounds the outer circle.
type RadialGradient struct {
	X      float64
	Y      float64
	Radius float64
	Stops  []GradientStop
}

// Canvas is a 2D drawing surface that paints in call order with normal
// source-over compositing.
type Canvas interface {
	Clear(width, height int)
	FillDot(d Dot)
	FillGradient(g RadialGradient)
}

// Opacity is the dot opacity for a point of the given age: linear fade over
// ten seconds, floored at 0.3. Negative ages render fully opaque.
func Opacity(age time.Duration) float64 {
	if age < 0 {
		return 1
	}
	return math.Max(minOpacity, 1-float64(age)/float64(fadeDuration))
}

// Render clears the canvas and paints every point in insertion order.
func (s *RenderState) Render(c Canvas, now time.Time) {
	c.Clear(s.width, s.height)

	if s.heatmapEnabled {
		radius := float64(s.dotRadius * heatmapSpread)
		for _, p := range s.points {
			c.FillGradient(RadialGradient{
				X:      p.X,
				Y:      p.Y,
				Radius: radius,
				Stops:  heatmapStops,
			})
		}
		return
	}

	nowMillis := now.UnixMilli()
	for _, p := range s.points {
		opacity := Opacity(time.Duration(nowMillis-p.CapturedAtMillis) * time.Millisecond)

		fill := dotColor
		fill.A = opacity
		stroke := dotStrokeColor
		stroke.A = opacity * 0.8

		c.FillDot(Dot{
			X:         p.X,
			Y:         p.Y,
			Radius:    float64(s.dotRadius),
			Fill:      fill,
			Stroke:    stroke,
			LineWidth: strokeWidth,
		})
	}
}
