// Package world defines the provider interfaces the climate pipeline consumes
// (terrain elevation, region partition, plate classification, world seed) and
// in-memory implementations backed by fixed-resolution grids.
package world

import "github.com/pthm-cable/atmo/field"

// PlateType classifies a region's tectonic plate.
type PlateType uint8

const (
	PlateContinental PlateType = iota
	PlateOceanic
	PlateBoundary
)

// Pixel is a grid coordinate inside a region.
type Pixel struct {
	X, Y int
}

// ElevationSource supplies normalized terrain elevation at normalized
// coordinates, bilinear over its own native resolution.
type ElevationSource interface {
	ElevationAt(u, v float32) float32
}

// RegionSource supplies the per-pixel region partition.
type RegionSource interface {
	RegionAt(x, y int) int
	RegionIDs() []int
	RegionPixels(id int) []Pixel
	Size() (w, h int)
}

// PlateSource maps region ids to plate types. Unknown regions resolve to a
// defined default rather than an error.
type PlateSource interface {
	PlateTypeOf(regionID int) PlateType
}

// SeedSource supplies the world seed. Seed 0 is a sentinel meaning "pick a
// fresh random seed each call"; callers needing reproducibility supply a
// nonzero seed.
type SeedSource interface {
	Seed() int64
}

// FixedSeed is a SeedSource returning a constant.
type FixedSeed int64

// Seed returns the fixed seed value.
func (s FixedSeed) Seed() int64 { return int64(s) }

// Heightmap is an in-memory ElevationSource over a scalar field at its own
// native resolution, independent of any climate grid resolution.
type Heightmap struct {
	data *field.Scalar
}

// NewHeightmap wraps an elevation field. The field is referenced, not copied;
// the caller must not mutate it afterwards.
func NewHeightmap(data *field.Scalar) *Heightmap {
	return &Heightmap{data: data}
}

// UniformHeightmap returns a heightmap with constant elevation, used by tests
// and fallback paths.
func UniformHeightmap(w, h int, elevation float32) *Heightmap {
	f := field.NewScalar(w, h)
	f.Fill(elevation)
	return &Heightmap{data: f}
}

// ElevationAt samples the heightmap bilinearly at normalized coordinates.
func (h *Heightmap) ElevationAt(u, v float32) float32 {
	return h.data.Sample(u, v)
}

// Size returns the native resolution of the heightmap.
func (h *Heightmap) Size() (w, ht int) {
	return h.data.W, h.data.H
}

// GridRegionMap is an in-memory RegionSource over a dense id grid.
type GridRegionMap struct {
	w, h   int
	ids    []int
	pixels map[int][]Pixel
	order  []int
}

// NewGridRegionMap builds a region map from a row-major id grid.
func NewGridRegionMap(w, h int, ids []int) *GridRegionMap {
	m := &GridRegionMap{w: w, h: h, ids: ids, pixels: make(map[int][]Pixel)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := ids[y*w+x]
			if _, seen := m.pixels[id]; !seen {
				m.order = append(m.order, id)
			}
			m.pixels[id] = append(m.pixels[id], Pixel{X: x, Y: y})
		}
	}
	return m
}

// RegionAt returns the region id owning pixel (x, y).
func (m *GridRegionMap) RegionAt(x, y int) int {
	return m.ids[y*m.w+x]
}

// RegionIDs returns all region ids in first-encountered scan order.
func (m *GridRegionMap) RegionIDs() []int {
	return m.order
}

// RegionPixels returns the member pixels of a region.
func (m *GridRegionMap) RegionPixels(id int) []Pixel {
	return m.pixels[id]
}

// Size returns the partition resolution.
func (m *GridRegionMap) Size() (w, h int) {
	return m.w, m.h
}

// PlateTypes is a PlateSource backed by a map with a default type for
// unclassified regions.
type PlateTypes struct {
	Types   map[int]PlateType
	Default PlateType
}

// PlateTypeOf returns the classification for a region, or the default.
func (p *PlateTypes) PlateTypeOf(regionID int) PlateType {
	if t, ok := p.Types[regionID]; ok {
		return t
	}
	return p.Default
}
