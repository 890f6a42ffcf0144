// Package canvas is the software drawing surface used by the vm.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Canvas persists between frames and starts opaque black.
type Canvas struct {
	img *image.RGBA
}

func New(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// Image returns the backing image. It is updated in place.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Point sets one pixel, ignored outside the canvas.
func (c *Canvas) Point(x, y int32, col color.RGBA) {
	c.img.SetRGBA(int(x), int(y), col)
}

// Line draws a line with both endpoints included. The segment is clipped to
// the canvas first, so far away endpoints cost nothing.
func (c *Canvas) Line(x0, y0, x1, y1 int32, col color.RGBA) {
	bounds := c.img.Bounds()
	fx0, fy0, fx1, fy1, ok := clip(float64(x0), float64(y0), float64(x1), float64(y1), bounds)
	if !ok {
		return
	}

	// Bresenham on the clipped segment.
	x, y := int64(math.Round(fx0)), int64(math.Round(fy0))
	ex, ey := int64(math.Round(fx1)), int64(math.Round(fy1))
	dx, dy := abs(ex-x), -abs(ey-y)
	sx, sy := sign(ex-x), sign(ey-y)
	err := dx + dy
	for {
		if image.Pt(int(x), int(y)).In(bounds) {
			c.img.SetRGBA(int(x), int(y), col)
		}
		if x == ex && y == ey {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// clip restricts the segment to the area covered by the pixels of b
// (Liang-Barsky). ok is false when the segment misses it.
func clip(x0, y0, x1, y1 float64, b image.Rectangle) (ax, ay, bx, by float64, ok bool) {
	xmin, ymin := float64(b.Min.X)-0.5, float64(b.Min.Y)-0.5
	xmax, ymax := float64(b.Max.X)-0.5, float64(b.Max.Y)-0.5
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			// Parallel to the edge.
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// Rect fills a rectangle. Nothing is drawn for a non positive size.
func (c *Canvas) Rect(x, y, w, h int32, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(int(x), int(y), int(int64(x)+int64(w)), int(int64(y)+int64(h))).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int64) int64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
