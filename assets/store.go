package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

var (
	ErrNotFound   = errors.New("image not found")
	ErrEmptyImage = errors.New("image has zero size")
)

// Extensions are tried in order when looking for a bundled image.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp", ".tiff"}

type Source int

const (
	Bundled Source = iota
	Override
)

func (s Source) String() string {
	if s == Override {
		return "override"
	}
	return "bundled"
}

// Image is a decoded map image.
type Image struct {
	Key    Key
	Path   string
	Source Source
	Pixels image.Image
}

func (i *Image) Size() (w, h int) {
	b := i.Pixels.Bounds()
	return b.Dx(), b.Dy()
}

// Store resolves keys to decoded images. User overrides win over the
// bundled images in the resource directory; an override that can no longer
// be read falls back to the bundled default.
type Store struct {
	dir       string
	overrides map[Key]string
	cache     map[Key]*Image
}

func NewStore(resourceDir string, overrides map[Key]string) *Store {
	s := &Store{
		dir:       resourceDir,
		overrides: make(map[Key]string, len(overrides)),
		cache:     make(map[Key]*Image),
	}
	for k, p := range overrides {
		s.overrides[k] = p
	}
	return s
}

func (s *Store) Dir() string {
	return s.dir
}

// Overrides returns a copy of the override paths currently in effect.
func (s *Store) Overrides() map[Key]string {
	res := make(map[Key]string, len(s.overrides))
	for k, p := range s.overrides {
		res[k] = p
	}
	return res
}

// Image returns the decoded image for key, loading it on first use.
func (s *Store) Image(key Key) (*Image, error) {
	if img, ok := s.cache[key]; ok {
		return img, nil
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	img, err := s.load(key)
	if err != nil {
		return nil, err
	}
	s.cache[key] = img
	return img, nil
}

func (s *Store) load(key Key) (*Image, error) {
	if p, ok := s.overrides[key]; ok {
		img, err := decodeFile(p)
		if err == nil {
			log.Tracef("Loaded %v from override %s", key, p)
			return &Image{key, p, Override, img}, nil
		}
		log.Warnf("Override for %v unusable, falling back to bundled image: %v", key, err)
	}
	for _, ext := range Extensions {
		p := filepath.Join(s.dir, key.String()+ext)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		img, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		log.Tracef("Loaded %v from %s", key, p)
		return &Image{key, p, Bundled, img}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
}

// Replace decodes the file at path and makes it the image for key. On error
// the store is left unchanged.
func (s *Store) Replace(key Key, path string) (*Image, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	pixels, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	img := &Image{key, path, Override, pixels}
	s.cache[key] = img
	s.overrides[key] = path
	log.Infof("Replaced %v with %s", key, path)
	return img, nil
}

// Revert drops the override for key; the next Image call loads the bundled
// default again.
func (s *Store) Revert(key Key) {
	delete(s.overrides, key)
	delete(s.cache, key)
}

// Preload decodes every catalog image so switching layers is instant.
// Missing images are logged, not fatal.
func (s *Store) Preload() {
	loaded := 0
	for _, k := range AllKeys() {
		if _, err := s.Image(k); err != nil {
			log.Warnf("Preload %v: %v", k, err)
			continue
		}
		loaded++
	}
	log.Infof("Preloaded %d images from %s", loaded, s.dir)
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return img, nil
}
