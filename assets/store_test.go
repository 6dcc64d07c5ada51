package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"erangel_map", Key{Erangel, LayerMap}, false},
		{"rondo_heatmap2", Key{Rondo, LayerHeatmap2}, false},
		{"paramo_map", Key{Paramo, LayerMap}, false},
		{"paramo_heatmap1", Key{}, true},
		{"atlantis_map", Key{}, true},
		{"erangel", Key{}, true},
		{"erangel_satellite", Key{}, true},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownKey) {
			t.Errorf("ParseKey(%q) error = %v, want ErrUnknownKey", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	for _, k := range AllKeys() {
		got, err := ParseKey(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKey(%q) = %v, %v", k.String(), got, err)
		}
	}
	if n := len(AllKeys()); n != 19 {
		t.Errorf("catalog has %d keys, want 19", n)
	}
}

func TestStoreBundled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "erangel_map.png"), 16, 8, color.White)

	s := NewStore(dir, nil)
	img, err := s.Image(Key{Erangel, LayerMap})
	if err != nil {
		t.Fatal(err)
	}
	if w, h := img.Size(); w != 16 || h != 8 {
		t.Errorf("size = %dx%d, want 16x8", w, h)
	}
	if img.Source != Bundled {
		t.Errorf("source = %v, want bundled", img.Source)
	}

	again, _ := s.Image(Key{Erangel, LayerMap})
	if again != img {
		t.Error("second lookup did not hit the cache")
	}

	if _, err := s.Image(Key{Miramar, LayerMap}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing image error = %v, want ErrNotFound", err)
	}
	if _, err := s.Image(Key{Paramo, LayerHeatmap1}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("invalid key error = %v, want ErrUnknownKey", err)
	}
}

func TestStoreOverride(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "taego_heatmap1.png"), 4, 4, color.White)
	custom := filepath.Join(t.TempDir(), "mine.png")
	writePNG(t, custom, 32, 20, color.Black)

	key := Key{Taego, LayerHeatmap1}
	s := NewStore(dir, map[Key]string{key: custom})
	img, err := s.Image(key)
	if err != nil {
		t.Fatal(err)
	}
	if img.Source != Override || img.Path != custom {
		t.Errorf("got %v from %s, want override from %s", img.Source, img.Path, custom)
	}
	if w, h := img.Size(); w != 32 || h != 20 {
		t.Errorf("size = %dx%d, want 32x20", w, h)
	}
}

func TestStoreStaleOverrideFallsBack(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "deston_map.png"), 10, 10, color.White)

	key := Key{Deston, LayerMap}
	s := NewStore(dir, map[Key]string{key: filepath.Join(dir, "gone.png")})
	img, err := s.Image(key)
	if err != nil {
		t.Fatal(err)
	}
	if img.Source != Bundled {
		t.Errorf("source = %v, want bundled", img.Source)
	}
}

func TestStoreReplaceAndRevert(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "vikendi_map.png"), 10, 10, color.White)
	custom := filepath.Join(t.TempDir(), "custom.png")
	writePNG(t, custom, 20, 30, color.Black)
	broken := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(broken, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	key := Key{Vikendi, LayerMap}
	s := NewStore(dir, nil)
	if _, err := s.Image(key); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Replace(key, broken); err == nil {
		t.Fatal("replacing with a broken file succeeded")
	}
	if _, ok := s.Overrides()[key]; ok {
		t.Error("failed replace recorded an override")
	}

	img, err := s.Replace(key, custom)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := img.Size(); w != 20 || h != 30 {
		t.Errorf("size = %dx%d, want 20x30", w, h)
	}
	if got, _ := s.Image(key); got != img {
		t.Error("Image did not return the replacement")
	}
	if s.Overrides()[key] != custom {
		t.Errorf("override = %q, want %q", s.Overrides()[key], custom)
	}

	s.Revert(key)
	img, err = s.Image(key)
	if err != nil {
		t.Fatal(err)
	}
	if img.Source != Bundled {
		t.Errorf("source after revert = %v, want bundled", img.Source)
	}
}
