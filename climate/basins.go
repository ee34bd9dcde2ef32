package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/world"
)

// Basin is a cluster of adjacent oceanic regions merged by shared border
// length. Statistics are restricted to pixels terrain actually puts below
// sea level; a region can be oceanic by plate type yet hold dry pixels.
type Basin struct {
	ID         int
	PixelCount int
	CentroidX  float64
	CentroidY  float64
}

// unionFind is a weighted union-find with iterative path compression, sized
// for dense indices assigned to oceanic regions.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// find resolves the set representative without recursion, then compresses
// the walked path in a second pass.
func (uf *unionFind) find(i int) int {
	root := i
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[i] != root {
		uf.parent[i], i = root, uf.parent[i]
	}
	return root
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// BasinStage clusters oceanic regions into basins. Basins are recomputed
// fully on every generation; ids are dense and carry no identity across
// passes.
type BasinStage struct {
	cfg     *config.Config
	log     *slog.Logger
	regions world.RegionSource
	plates  world.PlateSource
	terrain *TerrainStage

	basins  []Basin
	byPixel []int32 // basin id per grid cell, -1 outside any basin
}

// NewBasinStage wires the region partition and plate classification into the
// clustering pass.
func NewBasinStage(cfg *config.Config, log *slog.Logger, regions world.RegionSource, plates world.PlateSource, terrain *TerrainStage) *BasinStage {
	return &BasinStage{cfg: cfg, log: log, regions: regions, plates: plates, terrain: terrain}
}

// Generate rebuilds the basin set from scratch.
func (s *BasinStage) Generate() error {
	if s.regions == nil || s.plates == nil {
		s.log.Warn("basin stage aborted", "reason", "no region partition or plate classification")
		return ErrMissingUpstream
	}
	if s.terrain.Elevation() == nil {
		s.log.Warn("basin stage regenerating missing terrain")
		if err := s.terrain.Generate(); err != nil {
			return err
		}
		if s.terrain.Elevation() == nil {
			return ErrMissingUpstream
		}
	}

	w, h := s.regions.Size()
	if w != s.cfg.Grid.Width || h != s.cfg.Grid.Height {
		return ErrResolutionMismatch
	}

	// Dense indices for oceanic regions, in scan order of the id set.
	index := make(map[int]int)
	ids := s.regions.RegionIDs()
	for _, id := range ids {
		if s.plates.PlateTypeOf(id) == world.PlateOceanic {
			index[id] = len(index)
		}
	}

	// Shared border length per unordered oceanic region pair, counted over
	// 4-adjacent pixel pairs with differing region ids.
	type pair struct{ a, b int }
	borders := make(map[pair]int)
	countEdge := func(idA, idB int) {
		if idA == idB {
			return
		}
		ia, okA := index[idA]
		ib, okB := index[idB]
		if !okA || !okB {
			return
		}
		if ia > ib {
			ia, ib = ib, ia
		}
		borders[pair{ia, ib}]++
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := s.regions.RegionAt(x, y)
			if x < w-1 {
				countEdge(id, s.regions.RegionAt(x+1, y))
			}
			if y < h-1 {
				countEdge(id, s.regions.RegionAt(x, y+1))
			}
		}
	}

	uf := newUnionFind(len(index))
	threshold := s.cfg.Basins.MinSharedBorderPx
	for p, length := range borders {
		if length >= threshold {
			uf.union(p.a, p.b)
		}
	}

	// Compress representatives into dense sequential basin ids, assigned in
	// region scan order for stability.
	basinOf := make(map[int]int) // dense region index -> basin id
	var basins []Basin
	for _, id := range ids {
		di, ok := index[id]
		if !ok {
			continue
		}
		root := uf.find(di)
		if bid, seen := basinOf[root]; seen {
			basinOf[di] = bid
			continue
		}
		bid := len(basins)
		basins = append(basins, Basin{ID: bid})
		basinOf[root] = bid
		basinOf[di] = bid
	}

	// Membership mask and statistics, restricted to true water pixels.
	elev := s.terrain.Elevation()
	seaLevel := s.cfg.Derived.SeaLevel32
	byPixel := make([]int32, w*h)
	for i := range byPixel {
		byPixel[i] = -1
	}
	sumX := make([]float64, len(basins))
	sumY := make([]float64, len(basins))
	for _, id := range ids {
		di, ok := index[id]
		if !ok {
			continue
		}
		bid := basinOf[uf.find(di)]
		for _, px := range s.regions.RegionPixels(id) {
			i := px.Y*w + px.X
			if elev.Data[i] >= seaLevel {
				continue
			}
			byPixel[i] = int32(bid)
			basins[bid].PixelCount++
			sumX[bid] += float64(px.X)
			sumY[bid] += float64(px.Y)
		}
	}
	for i := range basins {
		if n := basins[i].PixelCount; n > 0 {
			basins[i].CentroidX = sumX[i] / float64(n)
			basins[i].CentroidY = sumY[i] / float64(n)
		}
	}

	s.basins = basins
	s.byPixel = byPixel
	return nil
}

// Basins returns the basin set from the last generation.
func (s *BasinStage) Basins() []Basin { return s.basins }

// BasinAt returns the basin id owning water pixel (x, y), or -1.
func (s *BasinStage) BasinAt(x, y int) int {
	return int(s.byPixel[y*s.cfg.Grid.Width+x])
}

// Generated reports whether the stage has published output.
func (s *BasinStage) Generated() bool { return s.byPixel != nil }
