package gaze

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// Raster is a Canvas that paints into an RGBA image.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewRaster returns a raster canvas. The image is allocated on Clear.
func NewRaster() *Raster {
	return &Raster{}
}

func (r *Raster) Clear(width, height int) {
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.z = vector.NewRasterizer(width, height)
}

func (r *Raster) ensure() {
	if r.img == nil {
		r.Clear(DefaultSurfaceWidth, DefaultSurfaceHeight)
	}
}

func (r *Raster) FillDot(d Dot) {
	r.ensure()

	r.z.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	circlePath(r.z, d.X, d.Y, d.Radius, false)
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(toNRGBA(d.Fill)), image.Point{})

	if d.LineWidth <= 0 {
		return
	}
	half := d.LineWidth / 2
	r.z.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	circlePath(r.z, d.X, d.Y, d.Radius+half, false)
	if inner := d.Radius - half; inner > 0 {
		// Opposite winding cuts the hole out of the ring.
		circlePath(r.z, d.X, d.Y, inner, true)
	}
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(toNRGBA(d.Stroke)), image.Point{})
}

func (r *Raster) FillGradient(g RadialGradient) {
	r.ensure()
	if g.Radius <= 0 || len(g.Stops) == 0 {
		return
	}

	square := image.Rect(
		int(math.Floor(g.X-g.Radius)),
		int(math.Floor(g.Y-g.Radius)),
		int(math.Ceil(g.X+g.Radius)),
		int(math.Ceil(g.Y+g.Radius)),
	).Intersect(r.img.Bounds())
	if square.Empty() {
		return
	}
	draw.Draw(r.img, square, gradientImage{g: g, bounds: square}, square.Min, draw.Over)
}

// Image returns the painted image.
func (r *Raster) Image() *image.RGBA {
	r.ensure()
	return r.img
}

// EncodePNG writes the painted image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.Image())
}

func circlePath(z *vector.Rasterizer, cx, cy, radius float64, reverse bool) {
	k := radius * kappa
	x := float32(cx)
	y := float32(cy)
	rr := float32(radius)
	kk := float32(k)

	z.MoveTo(x+rr, y)
	if !reverse {
		z.CubeTo(x+rr, y+kk, x+kk, y+rr, x, y+rr)
		z.CubeTo(x-kk, y+rr, x-rr, y+kk, x-rr, y)
		z.CubeTo(x-rr, y-kk, x-kk, y-rr, x, y-rr)
		z.CubeTo(x+kk, y-rr, x+rr, y-kk, x+rr, y)
	} else {
		z.CubeTo(x+rr, y-kk, x+kk, y-rr, x, y-rr)
		z.CubeTo(x-kk, y-rr, x-rr, y-kk, x-rr, y)
		z.CubeTo(x-rr, y+kk, x-kk, y+rr, x, y+rr)
		z.CubeTo(x+kk, y+rr, x+rr, y+kk, x+rr, y)
	}
	z.ClosePath()
}

func toNRGBA(c RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha8(c.A)}
}

func alpha8(a float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
}

// gradientImage samples a radial gradient at pixel centres, interpolating
// premultiplied colors between stops.
type gradientImage struct {
	g      RadialGradient
	bounds image.Rectangle
}

func (gi gradientImage) ColorModel() color.Model { return color.RGBAModel }

func (gi gradientImage) Bounds() image.Rectangle { return gi.bounds }

func (gi gradientImage) At(x, y int) color.Color {
	dist := math.Hypot(float64(x)+0.5-gi.g.X, float64(y)+0.5-gi.g.Y) / gi.g.Radius
	stops := gi.g.Stops

	if dist <= stops[0].Offset {
		return premultiply(stops[0].Color)
	}
	for i := 1; i < len(stops); i++ {
		if dist > stops[i].Offset {
			continue
		}
		a, b := stops[i-1], stops[i]
		t := 0.0
		if span := b.Offset - a.Offset; span > 0 {
			t = (dist - a.Offset) / span
		}
		return lerpPremultiplied(a.Color, b.Color, t)
	}
	// Beyond the last stop the canvas extends the last color.
	return premultiply(stops[len(stops)-1].Color)
}

func premultiply(c RGBA) color.RGBA {
	return lerpPremultiplied(c, c, 0)
}

func lerpPremultiplied(a, b RGBA, t float64) color.RGBA {
	alpha := a.A + (b.A-a.A)*t
	channel := func(ca, cb uint8) uint8 {
		v := float64(ca)*a.A + (float64(cb)*b.A-float64(ca)*a.A)*t
		return uint8(math.Round(math.Min(v, 255)))
	}
	return color.RGBA{
		R: channel(a.R, b.R),
		G: channel(a.G, b.G),
		B: channel(a.B, b.B),
		A: alpha8(alpha),
	}
}
