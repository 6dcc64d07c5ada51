// Package raster draws viewport frames into memory, for snapshots and
// anywhere no window is available.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	log "github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/tlanfk/bag-map/viewport"
)

// Canvas is a viewport.Surface backed by an RGBA image.
type Canvas struct {
	Dst *image.RGBA
	Src image.Image
}

var _ viewport.Surface = &Canvas{}

func NewCanvas(width, height int, bg color.Color, src image.Image) *Canvas {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &Canvas{dst, src}
}

func interpolator(f viewport.Filter) xdraw.Interpolator {
	if f == viewport.FilterNearest {
		return xdraw.NearestNeighbor
	}
	return xdraw.CatmullRom
}

// Blit stretches the src region of the source image onto dst. Fractional
// source rectangles are honoured through an affine transform.
func (c *Canvas) Blit(src viewport.RectF, dst image.Rectangle, filter viewport.Filter) error {
	clipped := dst.Intersect(c.Dst.Bounds())
	if clipped.Empty() || src.Empty() {
		return nil
	}
	// Scale against the full dst so clipping crops instead of squeezing.
	sx := float64(dst.Dx()) / src.W
	sy := float64(dst.Dy()) / src.H
	// Source origin is the image bounds' Min; src is relative to it.
	origin := c.Src.Bounds().Min
	s2d := f64.Aff3{
		sx, 0, float64(dst.Min.X) - (src.X+float64(origin.X))*sx,
		0, sy, float64(dst.Min.Y) - (src.Y+float64(origin.Y))*sy,
	}
	sr := src.Bounds().Add(origin).Intersect(c.Src.Bounds())
	target := c.Dst.SubImage(clipped).(*image.RGBA)
	log.Tracef("Raster blit %v of source onto %v with %v", sr, clipped, filter)
	interpolator(filter).Transform(target, s2d, c.Src, sr, xdraw.Src, nil)
	return nil
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.Dst)
}
