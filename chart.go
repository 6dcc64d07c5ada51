package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"

	"github.com/tlanfk/bag-map/settings"
	"github.com/tlanfk/bag-map/viewport"
)

// drawZoomChart writes a bar chart of the zoom reached after each wheel step
// with the given sensitivity, next to the default sensitivity for reference.
func drawZoomChart(name string, s settings.Sensitivity) error {
	cfg := viewport.DefaultConfig()
	cfg.ZoomSensitivity = s.Zoom
	current := viewport.ZoomLadder(cfg)
	cfg.ZoomSensitivity = settings.DefaultZoomSensitivity
	reference := viewport.ZoomLadder(cfg)

	steps := len(current)
	if len(reference) > steps {
		steps = len(reference)
	}
	xs := make([]int, steps)
	for i := range xs {
		xs[i] = i
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Zoom per wheel step",
			Subtitle: fmt.Sprintf("%d steps from %.1fx to %.1fx", len(current)-1, viewport.MinZoom, viewport.MaxZoom),
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	bar.SetXAxis(xs).
		AddSeries(fmt.Sprintf("sensitivity %.2f", s.Zoom), barData(current)).
		AddSeries(fmt.Sprintf("default %.2f", settings.DefaultZoomSensitivity), barData(reference))

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	defer f.Close()
	log.Tracef("Zoom ladder: %v", current)
	return bar.Render(f)
}

func barData(values []float64) []opts.BarData {
	res := make([]opts.BarData, len(values))
	for i, v := range values {
		res[i] = opts.BarData{Value: v}
	}
	return res
}
