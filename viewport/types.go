// Package viewport keeps the pan and zoom transform of one image shown
// inside a fixed-size display surface.
package viewport

import (
	"fmt"
	"image"
	"math"
	"time"
)

type Size struct {
	W, H float64
}

// Empty reports whether either side is not positive, as for a minimised
// window.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point   { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point   { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// RectF is a rectangle in image pixels. Width and height may be fractional.
type RectF struct {
	X, Y, W, H float64
}

func (r RectF) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Bounds returns the smallest integer rectangle containing r.
func (r RectF) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(r.Y+r.H)),
	)
}

type Mode int

const (
	Idle Mode = iota
	Panning
	Zooming
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Zooming:
		return "zooming"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Filter selects the resampling used when the visible part of the image is
// stretched onto the surface.
type Filter int

const (
	FilterHighQuality Filter = iota
	FilterNearest
)

func (f Filter) String() string {
	if f == FilterNearest {
		return "nearest"
	}
	return "high-quality"
}

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

type Config struct {
	MinZoom     float64
	MaxZoom     float64
	DefaultZoom float64

	ZoomSensitivity float64
	PanSensitivity  float64

	// SettleDelay is how long the wheel has to stay quiet before the
	// controller leaves Zooming and asks for a high-quality frame.
	SettleDelay time.Duration
}

const (
	MinZoom     = 1.3
	MaxZoom     = 8.0
	DefaultZoom = 1.4

	DefaultZoomSensitivity = 0.1
	DefaultPanSensitivity  = 1.0

	DefaultSettleDelay = 150 * time.Millisecond
)

func DefaultConfig() Config {
	return Config{
		MinZoom:         MinZoom,
		MaxZoom:         MaxZoom,
		DefaultZoom:     DefaultZoom,
		ZoomSensitivity: DefaultZoomSensitivity,
		PanSensitivity:  DefaultPanSensitivity,
		SettleDelay:     DefaultSettleDelay,
	}
}

// Surface receives the blit produced by Controller.Render. src is in source
// image pixels, dst in display pixels.
type Surface interface {
	Blit(src RectF, dst image.Rectangle, filter Filter) error
}

// State is a snapshot of the controller's transform.
type State struct {
	ImageSize     Size
	ContainerSize Size
	BaseScale     float64
	UserZoom      float64
	Offset        Point
	Mode          Mode
}

func (s State) EffectiveScale() float64 {
	return s.BaseScale * s.UserZoom
}

func (s State) ScaledSize() Size {
	k := s.EffectiveScale()
	return Size{s.ImageSize.W * k, s.ImageSize.H * k}
}
