package viewport

import (
	"image"
	"math"

	log "github.com/sirupsen/logrus"
)

// Visible returns the display rectangle the image occupies inside the
// container and the matching rectangle in source pixels. ok is false when
// nothing of the image is visible.
func (c *Controller) Visible() (src RectF, dst image.Rectangle, ok bool) {
	if !c.loaded {
		return RectF{}, image.Rectangle{}, false
	}
	scale := c.EffectiveScale()
	scaled := c.State().ScaledSize()
	imageRect := image.Rect(
		int(math.Round(c.offset.X)),
		int(math.Round(c.offset.Y)),
		int(math.Round(c.offset.X+scaled.W)),
		int(math.Round(c.offset.Y+scaled.H)),
	)
	panel := image.Rect(0, 0, int(c.container.W), int(c.container.H))
	dst = panel.Intersect(imageRect)
	if dst.Empty() {
		return RectF{}, image.Rectangle{}, false
	}
	// dst is whole pixels; map it back and keep it inside the image.
	x0 := math.Max(0, (float64(dst.Min.X)-c.offset.X)/scale)
	y0 := math.Max(0, (float64(dst.Min.Y)-c.offset.Y)/scale)
	x1 := math.Min(c.imageSize.W, (float64(dst.Max.X)-c.offset.X)/scale)
	y1 := math.Min(c.imageSize.H, (float64(dst.Max.Y)-c.offset.Y)/scale)
	src = RectF{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	if src.Empty() {
		return RectF{}, image.Rectangle{}, false
	}
	return src, dst, true
}

// Render blits the visible part of the image onto s.
func (c *Controller) Render(s Surface) error {
	src, dst, ok := c.Visible()
	if !ok {
		return nil
	}
	f := c.Filter()
	log.Tracef("Blit %+v -> %v (%v)", src, dst, f)
	return s.Blit(src, dst, f)
}
