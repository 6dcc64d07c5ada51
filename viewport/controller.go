package viewport

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
)

// zoomEpsilon is the smallest user zoom change treated as a real step.
const zoomEpsilon = 0.001

type Option func(*Controller)

// WithRedraw registers the callback invoked whenever the controller needs
// the host to draw a new frame.
func WithRedraw(f func()) Option {
	return func(c *Controller) {
		c.redraw = f
	}
}

// Controller owns the transform of the currently displayed image. It is not
// safe for concurrent use; all calls come from the host's event thread.
type Controller struct {
	cfg Config

	loaded    bool
	imageSize Size
	container Size
	baseScale float64
	userZoom  float64
	offset    Point
	mode      Mode

	dragStartPointer Point
	dragStartOffset  Point

	settlePending bool
	settleAt      time.Time

	// parkedPivot is the image point to put back at the centre once an
	// empty container gets a real size again.
	parkedPivot Point

	redraw func()
}

func NewController(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		baseScale: 1,
		userZoom:  cfg.DefaultZoom,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Loaded() bool {
	return c.loaded
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) UserZoom() float64 {
	return c.userZoom
}

func (c *Controller) EffectiveScale() float64 {
	return c.baseScale * c.userZoom
}

func (c *Controller) State() State {
	return State{
		ImageSize:     c.imageSize,
		ContainerSize: c.container,
		BaseScale:     c.baseScale,
		UserZoom:      c.userZoom,
		Offset:        c.offset,
		Mode:          c.mode,
	}
}

// Filter is the resampling filter for the next frame: nearest-neighbour
// while the user is interacting, high quality at rest.
func (c *Controller) Filter() Filter {
	if c.mode != Idle {
		return FilterNearest
	}
	return FilterHighQuality
}

func (c *Controller) SetSensitivity(zoom, pan float64) {
	c.cfg.ZoomSensitivity = zoom
	c.cfg.PanSensitivity = pan
	log.Tracef("Sensitivity: zoom %v, pan %v", zoom, pan)
}

// Load resets the transform for a new image. Both sizes must be positive.
func (c *Controller) Load(imageSize, containerSize Size) {
	c.loaded = true
	c.imageSize = imageSize
	c.container = containerSize
	c.baseScale = fitScale(imageSize, containerSize)
	c.userZoom = c.cfg.DefaultZoom
	c.mode = Idle
	c.settlePending = false
	c.center()
	if containerSize.Empty() {
		c.parkedPivot = Point{imageSize.W / 2, imageSize.H / 2}
	}
	log.Tracef("Load image %vx%v into %vx%v: base scale %v, offset %v",
		imageSize.W, imageSize.H, containerSize.W, containerSize.H, c.baseScale, c.offset)
	c.requestRedraw()
}

// Unload drops the current image. Render draws nothing afterwards.
func (c *Controller) Unload() {
	c.loaded = false
	c.imageSize = Size{}
	c.baseScale = 1
	c.userZoom = c.cfg.DefaultZoom
	c.offset = Point{}
	c.mode = Idle
	c.settlePending = false
	c.requestRedraw()
}

// Resize adapts the transform to a new container size. The user zoom is
// kept and the image point at the container centre stays at the centre. An
// empty container leaves the transform alone until a real size arrives.
func (c *Controller) Resize(containerSize Size) {
	if !c.loaded {
		c.container = containerSize
		return
	}
	pivot := c.parkedPivot
	if !c.container.Empty() {
		pivot = c.DisplayToImage(Point{c.container.W / 2, c.container.H / 2})
	}
	c.container = containerSize
	if containerSize.Empty() {
		c.parkedPivot = pivot
		log.Tracef("Resize to empty %vx%v, keeping transform", containerSize.W, containerSize.H)
		return
	}

	c.baseScale = fitScale(c.imageSize, containerSize)
	newCenter := Point{containerSize.W / 2, containerSize.H / 2}
	c.offset = newCenter.Sub(pivot.Mul(c.EffectiveScale()))
	c.constrain()
	log.Tracef("Resize to %vx%v: base scale %v, offset %v",
		containerSize.W, containerSize.H, c.baseScale, c.offset)
	c.requestRedraw()
}

// OnWheel zooms one sensitivity step around pos. A positive delta zooms in.
// It reports whether the transform changed.
func (c *Controller) OnWheel(delta float64, pos Point, now time.Time) bool {
	if !c.loaded || delta == 0 {
		return false
	}
	prior := c.mode
	if c.mode != Panning {
		c.mode = Zooming
	}

	oldZoom := c.userZoom
	var newZoom float64
	if delta > 0 {
		newZoom = math.Min(c.cfg.MaxZoom, oldZoom+c.cfg.ZoomSensitivity)
	} else {
		newZoom = math.Max(c.cfg.MinZoom, oldZoom-c.cfg.ZoomSensitivity)
	}
	if math.Abs(newZoom-oldZoom) < zoomEpsilon {
		c.mode = prior
		log.Tracef("Zoom at bound %v, ignoring wheel", oldZoom)
		return false
	}

	oldScale := c.baseScale * oldZoom
	newScale := c.baseScale * newZoom
	imagePt := pos.Sub(c.offset).Mul(1 / oldScale)
	c.userZoom = newZoom
	c.offset = pos.Sub(imagePt.Mul(newScale))
	c.constrain()

	if c.mode == Panning {
		// Re-anchor the drag so the next move starts from the zoomed offset.
		c.dragStartPointer = pos
		c.dragStartOffset = c.offset
	}

	c.settlePending = true
	c.settleAt = now.Add(c.cfg.SettleDelay)
	log.Tracef("Zoom %v -> %v at %v, offset %v", oldZoom, newZoom, pos, c.offset)
	c.requestRedraw()
	return true
}

// Tick advances the settle timer. Once the wheel has been quiet for the
// settle delay the controller returns to Idle and asks for a final frame.
// It reports whether the mode changed.
func (c *Controller) Tick(now time.Time) bool {
	if !c.settlePending || now.Before(c.settleAt) {
		return false
	}
	c.settlePending = false
	if c.mode != Zooming {
		return false
	}
	c.mode = Idle
	log.Trace("Zoom settled")
	c.requestRedraw()
	return true
}

// SettlePending reports whether a settle deadline is armed.
func (c *Controller) SettlePending() bool {
	return c.settlePending
}

func (c *Controller) OnPointerDown(pos Point, button Button) {
	if button != ButtonPrimary || !c.loaded {
		return
	}
	c.mode = Panning
	c.dragStartPointer = pos
	c.dragStartOffset = c.offset
	log.Tracef("Drag start at %v, offset %v", pos, c.offset)
}

func (c *Controller) OnPointerMove(pos Point) bool {
	if c.mode != Panning {
		return false
	}
	d := pos.Sub(c.dragStartPointer).Mul(c.cfg.PanSensitivity)
	c.offset = c.dragStartOffset.Add(d)
	c.constrain()
	c.requestRedraw()
	return true
}

func (c *Controller) OnPointerUp(button Button) {
	if button != ButtonPrimary {
		return
	}
	if c.mode == Panning {
		c.mode = Idle
		log.Tracef("Drag end, offset %v", c.offset)
		c.requestRedraw()
	}
}

// DisplayToImage maps a display point to source image pixels.
func (c *Controller) DisplayToImage(p Point) Point {
	return p.Sub(c.offset).Mul(1 / c.EffectiveScale())
}

// ImageToDisplay maps a source image pixel to display coordinates.
func (c *Controller) ImageToDisplay(p Point) Point {
	return p.Mul(c.EffectiveScale()).Add(c.offset)
}

func (c *Controller) center() {
	s := c.State().ScaledSize()
	c.offset = Point{(c.container.W - s.W) / 2, (c.container.H - s.H) / 2}
}

// constrain centres an axis the image does not fill and otherwise keeps the
// image covering the whole container.
func (c *Controller) constrain() {
	s := c.State().ScaledSize()
	c.offset.X = constrainAxis(c.offset.X, s.W, c.container.W)
	c.offset.Y = constrainAxis(c.offset.Y, s.H, c.container.H)
}

func constrainAxis(offset, scaled, container float64) float64 {
	if scaled <= container {
		return (container - scaled) / 2
	}
	return math.Min(0, math.Max(container-scaled, offset))
}

// fitScale is the largest scale, at most 1, that fits img into container.
// It is 1 when either size is empty.
func fitScale(img, container Size) float64 {
	if img.Empty() || container.Empty() {
		return 1
	}
	return math.Min(1, math.Min(container.W/img.W, container.H/img.H))
}

func (c *Controller) requestRedraw() {
	if c.redraw != nil {
		c.redraw()
	}
}
