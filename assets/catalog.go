// Package assets knows which maps and layers exist and where their images
// come from.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

type MapID string

const (
	Erangel MapID = "erangel"
	Miramar MapID = "miramar"
	Taego   MapID = "taego"
	Deston  MapID = "deston"
	Vikendi MapID = "vikendi"
	Rondo   MapID = "rondo"
	Paramo  MapID = "paramo"
)

type LayerID string

const (
	LayerMap      LayerID = "map"
	LayerHeatmap1 LayerID = "heatmap1"
	LayerHeatmap2 LayerID = "heatmap2"
)

// Layers lists every layer kind in display order.
var Layers = []LayerID{LayerMap, LayerHeatmap1, LayerHeatmap2}

var layerTitles = map[LayerID]string{
	LayerMap:      "Map",
	LayerHeatmap1: "Heat map 1",
	LayerHeatmap2: "Heat map 2",
}

func (l LayerID) Title() string {
	if t, ok := layerTitles[l]; ok {
		return t
	}
	return string(l)
}

type Map struct {
	ID     MapID
	Title  string
	Layers []LayerID
}

func (m Map) HasLayer(l LayerID) bool {
	for _, have := range m.Layers {
		if have == l {
			return true
		}
	}
	return false
}

// Maps is the catalog in selection order. Paramo ships without heat maps.
var Maps = []Map{
	{Erangel, "Erangel", Layers},
	{Miramar, "Miramar", Layers},
	{Taego, "Taego", Layers},
	{Deston, "Deston", Layers},
	{Vikendi, "Vikendi", Layers},
	{Rondo, "Rondo", Layers},
	{Paramo, "Paramo", []LayerID{LayerMap}},
}

func LookupMap(id MapID) (Map, bool) {
	for _, m := range Maps {
		if m.ID == id {
			return m, true
		}
	}
	return Map{}, false
}

var ErrUnknownKey = errors.New("unknown asset key")

// Key identifies one image variant: a map and one of its layers.
type Key struct {
	Map   MapID
	Layer LayerID
}

func (k Key) String() string {
	return string(k.Map) + "_" + string(k.Layer)
}

func (k Key) Title() string {
	m, ok := LookupMap(k.Map)
	if !ok {
		return k.String()
	}
	return m.Title + " - " + k.Layer.Title()
}

func (k Key) Validate() error {
	m, ok := LookupMap(k.Map)
	if !ok {
		return fmt.Errorf("%w: map %q", ErrUnknownKey, k.Map)
	}
	if !m.HasLayer(k.Layer) {
		return fmt.Errorf("%w: %s has no layer %q", ErrUnknownKey, m.Title, k.Layer)
	}
	return nil
}

// ParseKey parses the "map_layer" form produced by Key.String.
func ParseKey(s string) (Key, error) {
	mapPart, layerPart, found := strings.Cut(s, "_")
	if !found {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
	k := Key{MapID(mapPart), LayerID(layerPart)}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// AllKeys lists every valid key in catalog order.
func AllKeys() []Key {
	keys := make([]Key, 0, len(Maps)*len(Layers))
	for _, m := range Maps {
		for _, l := range m.Layers {
			keys = append(keys, Key{m.ID, l})
		}
	}
	return keys
}
