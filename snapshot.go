package main

import (
	"fmt"
	"image/color"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tlanfk/bag-map/assets"
	"github.com/tlanfk/bag-map/raster"
	"github.com/tlanfk/bag-map/settings"
	"github.com/tlanfk/bag-map/viewport"
)

type SnapshotRequest struct {
	Key           assets.Key
	Width, Height int
	ZoomSteps     int
	At            viewport.Point
	Out           string
}

func pointOrCentre(cCtx *cli.Context, x, y float64, width, height int) viewport.Point {
	p := viewport.Point{X: float64(width) / 2, Y: float64(height) / 2}
	if cCtx.IsSet("x") {
		p.X = x
	}
	if cCtx.IsSet("y") {
		p.Y = y
	}
	return p
}

// snapshot renders the view the window would show after req.ZoomSteps wheel
// steps at req.At, once the zoom has settled.
func snapshot(store *assets.Store, s settings.Sensitivity, req SnapshotRequest) error {
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("invalid panel size %dx%d", req.Width, req.Height)
	}
	img, err := store.Image(req.Key)
	if err != nil {
		return err
	}

	cfg := viewport.DefaultConfig()
	cfg.ZoomSensitivity = s.Zoom
	cfg.PanSensitivity = s.Pan
	ctl := viewport.NewController(cfg)

	w, h := img.Size()
	ctl.Load(viewport.Size{W: float64(w), H: float64(h)}, viewport.Size{W: float64(req.Width), H: float64(req.Height)})

	now := time.Now()
	delta := 1.0
	steps := req.ZoomSteps
	if steps < 0 {
		delta, steps = -1, -steps
	}
	for i := 0; i < steps; i++ {
		ctl.OnWheel(delta, req.At, now)
	}
	ctl.Tick(now.Add(cfg.SettleDelay))
	log.Debugf("Snapshot of %s: zoom %.2f, offset %v", req.Key.Title(), ctl.UserZoom(), ctl.State().Offset)

	canvas := raster.NewCanvas(req.Width, req.Height, color.RGBA{R: background.R, G: background.G, B: background.B, A: background.A}, img.Pixels)
	if err := ctl.Render(canvas); err != nil {
		return err
	}

	f, err := os.Create(req.Out)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := canvas.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
