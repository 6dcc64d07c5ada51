package main

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/tlanfk/bag-map/viewport"
)

// newTexture uploads img as a static RGBA texture.
func newTexture(renderer *sdl.Renderer, img image.Image) (*sdl.Texture, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	// ABGR8888 is R, G, B, A in memory on little-endian hosts, the same
	// layout as image.RGBA.
	surface, err := sdl.CreateRGBSurfaceWithFormat(0, int32(b.Dx()), int32(b.Dy()), 32, uint32(sdl.PIXELFORMAT_ABGR8888))
	if err != nil {
		return nil, fmt.Errorf("creating surface: %w", err)
	}
	defer surface.Free()

	if err := surface.Lock(); err != nil {
		return nil, fmt.Errorf("locking surface: %w", err)
	}
	pixels := surface.Pixels()
	pitch := int(surface.Pitch)
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		copy(pixels[y*pitch:y*pitch+row], rgba.Pix[y*rgba.Stride:y*rgba.Stride+row])
	}
	surface.Unlock()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, fmt.Errorf("creating texture: %w", err)
	}
	return texture, nil
}

// textureSurface blits a texture onto the renderer's target.
type textureSurface struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

func scaleMode(f viewport.Filter) sdl.ScaleMode {
	if f == viewport.FilterNearest {
		return sdl.ScaleModeNearest
	}
	return sdl.ScaleModeBest
}

func (s *textureSurface) Blit(src viewport.RectF, dst image.Rectangle, filter viewport.Filter) error {
	if err := s.texture.SetScaleMode(scaleMode(filter)); err != nil {
		return fmt.Errorf("setting scale mode: %w", err)
	}
	srcRect := &sdl.Rect{
		X: int32(math.Round(src.X)),
		Y: int32(math.Round(src.Y)),
		W: int32(math.Max(1, math.Round(src.W))),
		H: int32(math.Max(1, math.Round(src.H))),
	}
	dstRect := &sdl.Rect{
		X: int32(dst.Min.X),
		Y: int32(dst.Min.Y),
		W: int32(dst.Dx()),
		H: int32(dst.Dy()),
	}
	return s.renderer.Copy(s.texture, srcRect, dstRect)
}
