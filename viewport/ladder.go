package viewport

import "math"

// ZoomLadder lists the user zoom values reached by consecutive zoom-in wheel
// steps, starting at cfg.MinZoom and ending at cfg.MaxZoom.
func ZoomLadder(cfg Config) []float64 {
	if cfg.ZoomSensitivity <= 0 || cfg.MaxZoom < cfg.MinZoom {
		return []float64{cfg.MinZoom}
	}
	steps := []float64{cfg.MinZoom}
	z := cfg.MinZoom
	for cfg.MaxZoom-z >= zoomEpsilon {
		z = math.Min(cfg.MaxZoom, z+cfg.ZoomSensitivity)
		steps = append(steps, z)
	}
	return steps
}
