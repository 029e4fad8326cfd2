package world

import (
	"maps"
	"math"
	"slices"

	"github.com/udisondev/hearth/internal/model"
)

// RegionSize is the edge of one agent bucket in world units.
const RegionSize = 160.0

type regionKey struct {
	rx, ry int32
}

// regionIndex buckets agents by position for neighbourhood queries.
// It is rebuilt from scratch once per tick by the simulation goroutine.
type regionIndex struct {
	buckets map[regionKey][]model.AgentID
}

func newRegionIndex() *regionIndex {
	return &regionIndex{buckets: make(map[regionKey][]model.AgentID)}
}

func regionOf(p model.Point) regionKey {
	return regionKey{
		rx: int32(math.Floor(p.X / RegionSize)),
		ry: int32(math.Floor(p.Y / RegionSize)),
	}
}

// rebuild refills every bucket and drops the ones left empty. agents must be
// in id order so buckets stay sorted.
func (r *regionIndex) rebuild(agents []*model.Agent) {
	for k, ids := range r.buckets {
		r.buckets[k] = ids[:0]
	}
	for _, a := range agents {
		k := regionOf(a.Pos)
		r.buckets[k] = append(r.buckets[k], a.ID)
	}
	maps.DeleteFunc(r.buckets, func(_ regionKey, ids []model.AgentID) bool {
		return len(ids) == 0
	})
}

// surrounding returns the ids in the 3×3 window of regions around p, sorted.
func (r *regionIndex) surrounding(p model.Point, radius float64) []model.AgentID {
	span := int32(math.Ceil(radius / RegionSize))
	if span < 1 {
		span = 1
	}
	c := regionOf(p)
	var out []model.AgentID
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			out = append(out, r.buckets[regionKey{c.rx + dx, c.ry + dy}]...)
		}
	}
	slices.Sort(out)
	return out
}
