// Package settings persists image overrides and input sensitivities in a
// flat text file, one key|value pair per line.
//
// Values are not escaped: a value containing '|' is written as-is and the
// line is skipped on the next load.
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tlanfk/bag-map/assets"
)

const (
	Delimiter = "|"

	// ReservedPrefix marks configuration keys; every other key names an
	// image override.
	ReservedPrefix = "config_"

	KeyZoomSensitivity = ReservedPrefix + "zoom_sensitivity"
	KeyPanSensitivity  = ReservedPrefix + "pan_sensitivity"
)

const (
	DefaultZoomSensitivity = 0.1
	DefaultPanSensitivity  = 1.0

	MinZoomSensitivity = 0.10
	MaxZoomSensitivity = 0.30
	MinPanSensitivity  = 0.1
	MaxPanSensitivity  = 2.0
)

type Sensitivity struct {
	Zoom float64
	Pan  float64
}

func DefaultSensitivity() Sensitivity {
	return Sensitivity{DefaultZoomSensitivity, DefaultPanSensitivity}
}

// Clamp limits both values to the ranges the viewer accepts.
func (s Sensitivity) Clamp() Sensitivity {
	return Sensitivity{
		Zoom: clamp(s.Zoom, MinZoomSensitivity, MaxZoomSensitivity),
		Pan:  clamp(s.Pan, MinPanSensitivity, MaxPanSensitivity),
	}
}

func (s Sensitivity) String() string {
	return fmt.Sprintf("zoom %.2f, pan %.1f", s.Zoom, s.Pan)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

type Settings struct {
	Overrides   map[assets.Key]string
	Sensitivity Sensitivity

	// unknown keeps lines whose key is neither reserved nor a catalog key,
	// so saving does not drop them.
	unknown [][2]string
}

func New() *Settings {
	return &Settings{
		Overrides:   make(map[assets.Key]string),
		Sensitivity: DefaultSensitivity(),
	}
}

// ResetSensitivity restores the default sensitivities.
func (s *Settings) ResetSensitivity() {
	s.Sensitivity = DefaultSensitivity()
}

// Parse reads the text format. Blank lines and lines without exactly one
// delimiter are skipped.
func Parse(r io.Reader) (*Settings, error) {
	s := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, Delimiter)
		if len(parts) != 2 {
			log.Tracef("Skipping malformed settings line %d: %q", lineNo, line)
			continue
		}
		s.set(parts[0], parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	s.Sensitivity = s.Sensitivity.Clamp()
	return s, nil
}

func (s *Settings) set(key, value string) {
	switch key {
	case KeyZoomSensitivity:
		if v, ok := parseFloat(key, value); ok {
			s.Sensitivity.Zoom = v
		}
	case KeyPanSensitivity:
		if v, ok := parseFloat(key, value); ok {
			s.Sensitivity.Pan = v
		}
	default:
		if strings.HasPrefix(key, ReservedPrefix) {
			log.Tracef("Ignoring unknown setting %q", key)
			return
		}
		k, err := assets.ParseKey(key)
		if err != nil {
			log.Debugf("Keeping unrecognised override %q: %v", key, err)
			s.unknown = append(s.unknown, [2]string{key, value})
			return
		}
		s.Overrides[k] = value
	}
}

func parseFloat(key, value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		log.Warnf("Invalid value %q for %s, keeping default", value, key)
		return 0, false
	}
	return v, true
}

// WriteTo writes every setting: overrides sorted by key, unrecognised lines,
// then the reserved keys.
func (s *Settings) WriteTo(w io.Writer) (int64, error) {
	keys := make([]assets.Key, 0, len(s.Overrides))
	for k := range s.Overrides {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	var b strings.Builder
	line := func(key, value string) {
		if strings.Contains(value, Delimiter) {
			log.Warnf("Value for %s contains %q and will not load back: %s", key, Delimiter, value)
		}
		b.WriteString(key)
		b.WriteString(Delimiter)
		b.WriteString(value)
		b.WriteString("\n")
	}
	for _, k := range keys {
		line(k.String(), s.Overrides[k])
	}
	for _, kv := range s.unknown {
		line(kv[0], kv[1])
	}
	line(KeyZoomSensitivity, strconv.FormatFloat(s.Sensitivity.Zoom, 'g', -1, 64))
	line(KeyPanSensitivity, strconv.FormatFloat(s.Sensitivity.Pan, 'g', -1, 64))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Load reads the settings file at path. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("No settings file at %s, using defaults", path)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d overrides from %s (%v)", len(s.Overrides), path, s.Sensitivity)
	return s, nil
}

// Save rewrites the settings file at path from s.
func Save(path string, s *Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating settings: %w", err)
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing settings: %w", err)
	}
	log.Tracef("Saved settings to %s", path)
	return nil
}
