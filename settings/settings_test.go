package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tlanfk/bag-map/assets"
)

func TestParse(t *testing.T) {
	in := strings.Join([]string{
		"config_zoom_sensitivity|0.2",
		"badline",
		"",
		"erangel_map|C:\\maps\\erangel.png",
		"a|b|c",
		"config_pan_sensitivity|1.5",
		"rondo_heatmap1|/home/u/rondo heat.jpg",
	}, "\n")

	s, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if s.Sensitivity.Zoom != 0.2 || s.Sensitivity.Pan != 1.5 {
		t.Errorf("sensitivity = %+v", s.Sensitivity)
	}
	want := map[assets.Key]string{
		{Map: assets.Erangel, Layer: assets.LayerMap}:    "C:\\maps\\erangel.png",
		{Map: assets.Rondo, Layer: assets.LayerHeatmap1}: "/home/u/rondo heat.jpg",
	}
	if len(s.Overrides) != len(want) {
		t.Errorf("overrides = %v, want %v", s.Overrides, want)
	}
	for k, v := range want {
		if s.Overrides[k] != v {
			t.Errorf("override %v = %q, want %q", k, s.Overrides[k], v)
		}
	}
}

func TestParseZoomSensitivityLine(t *testing.T) {
	s, err := Parse(strings.NewReader("config_zoom_sensitivity|0.1\nbadline\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Sensitivity.Zoom != 0.1 {
		t.Errorf("zoom sensitivity = %v, want 0.1", s.Sensitivity.Zoom)
	}
}

func TestParseBadValues(t *testing.T) {
	tests := []struct {
		in   string
		want Sensitivity
	}{
		{"config_zoom_sensitivity|fast", DefaultSensitivity()},
		{"config_pan_sensitivity|NaN", DefaultSensitivity()},
		{"config_zoom_sensitivity|5\nconfig_pan_sensitivity|0", Sensitivity{MaxZoomSensitivity, MinPanSensitivity}},
		{"config_zoom_sensitivity|0.25\r\nconfig_pan_sensitivity| 0.7 ", Sensitivity{0.25, 0.7}},
	}
	for _, tt := range tests {
		s, err := Parse(strings.NewReader(tt.in))
		if err != nil {
			t.Fatal(err)
		}
		if s.Sensitivity != tt.want {
			t.Errorf("Parse(%q) sensitivity = %+v, want %+v", tt.in, s.Sensitivity, tt.want)
		}
	}
}

func TestWriteTo(t *testing.T) {
	s := New()
	s.Sensitivity = Sensitivity{0.15, 1.2}
	s.Overrides[assets.Key{Map: assets.Taego, Layer: assets.LayerMap}] = "/b.png"
	s.Overrides[assets.Key{Map: assets.Deston, Layer: assets.LayerHeatmap2}] = "/a.png"

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	want := "deston_heatmap2|/a.png\n" +
		"taego_map|/b.png\n" +
		"config_zoom_sensitivity|0.15\n" +
		"config_pan_sensitivity|1.2\n"
	if buf.String() != want {
		t.Errorf("WriteTo =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestUnknownOverridesSurviveSave(t *testing.T) {
	s, err := Parse(strings.NewReader("atlantis_map|/x.png\nconfig_theme|dark\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "atlantis_map|/x.png\n") {
		t.Errorf("unknown override dropped:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "config_theme") {
		t.Errorf("unknown reserved key written:\n%s", buf.String())
	}
}

func TestPipeInPathIsSkippedOnLoad(t *testing.T) {
	s := New()
	key := assets.Key{Map: assets.Miramar, Layer: assets.LayerMap}
	s.Overrides[key] = "/odd|name.png"
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := back.Overrides[key]; ok {
		t.Error("line with an embedded delimiter was loaded")
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_maps.txt")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if s.Sensitivity != DefaultSensitivity() || len(s.Overrides) != 0 {
		t.Errorf("missing file gave %+v", s)
	}

	key := assets.Key{Map: assets.Vikendi, Layer: assets.LayerHeatmap1}
	s.Overrides[key] = "/maps/v.png"
	s.Sensitivity = Sensitivity{0.3, 0.5}
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Overrides[key] != "/maps/v.png" || back.Sensitivity != s.Sensitivity {
		t.Errorf("round trip gave %+v", back)
	}

	back.ResetSensitivity()
	if back.Sensitivity != DefaultSensitivity() {
		t.Errorf("reset gave %+v", back.Sensitivity)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(dir, "sub")); err == nil {
		t.Error("loading a directory succeeded")
	}
	if err := Save(filepath.Join(dir, "missing", "x.txt"), New()); err == nil {
		t.Error("saving into a missing directory succeeded")
	}
}
