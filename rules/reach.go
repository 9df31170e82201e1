package rules

import (
	"container/heap"
	"sort"

	"github.com/nstehr/gridwars/gridwars-core/model"
)

// Range is the set of tiles a unit can reach this turn with the cheapest
// cost to each. The origin is always present at cost 0.
type Range struct {
	Origin model.TileID
	costs  map[model.TileID]int
}

// Contains reports whether id is reachable.
func (r Range) Contains(id model.TileID) bool {
	_, ok := r.costs[id]
	return ok
}

// Cost returns the cheapest cost to reach id.
func (r Range) Cost(id model.TileID) (int, bool) {
	c, ok := r.costs[id]
	return c, ok
}

func (r Range) Len() int { return len(r.costs) }

// Tiles returns the reachable tile ids in ascending order.
func (r Range) Tiles() []model.TileID {
	out := make([]model.TileID, 0, len(r.costs))
	for id := range r.costs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Destinations returns reachable tiles the unit could actually stop on:
// everything except the origin, in ascending order.
func (r Range) Destinations() []model.TileID {
	out := make([]model.TileID, 0, len(r.costs))
	for _, id := range r.Tiles() {
		if id != r.Origin {
			out = append(out, id)
		}
	}
	return out
}

type reachConfig struct {
	passAllies bool
	budget     int
}

// ReachOption adjusts the search.
type ReachOption func(*reachConfig)

// PassThroughAllies lets the search cross (but never end on) tiles held by
// the mover's own side.
func PassThroughAllies() ReachOption {
	return func(c *reachConfig) { c.passAllies = true }
}

// WithBudget overrides the unit type's movement allowance.
func WithBudget(n int) ReachOption {
	return func(c *reachConfig) { c.budget = n }
}

type reachNode struct {
	tile  model.TileID
	cost  int
	index int
}

type frontier []*reachNode

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i]; f[i].index = i; f[j].index = j }
func (f *frontier) Push(x interface{}) { n := x.(*reachNode); n.index = len(*f); *f = append(*f, n) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return n
}

// Reach runs a uniform-cost search from the unit's tile. Each step costs the
// destination tile's movement cost for the unit's type; impassable steps and
// tiles held by other units are pruned. A tile is in range iff its cheapest
// cost is within the movement budget. Fuel does not limit the search.
func Reach(b *model.Board, u *model.Unit, opts ...ReachOption) Range {
	cfg := reachConfig{budget: u.Type.Movement}
	for _, o := range opts {
		o(&cfg)
	}

	origin := u.Tile()
	best := map[model.TileID]int{origin: 0}
	pass := map[model.TileID]bool{}

	f := &frontier{{tile: origin}}
	heap.Init(f)
	for f.Len() > 0 {
		cur := heap.Pop(f).(*reachNode)
		if cur.cost > best[cur.tile] {
			continue
		}
		for _, next := range b.Neighbors(cur.tile) {
			t := b.Tile(next)
			step := u.Type.MoveCost(t.Kind(), t.MoveCost)
			if step >= model.Impassable {
				continue
			}
			if occ := b.UnitAt(next); occ != nil && occ.ID != u.ID {
				if !cfg.passAllies || occ.Owner != u.Owner {
					continue
				}
				pass[next] = true
			}
			cost := cur.cost + step
			if cost > cfg.budget {
				continue
			}
			if prev, seen := best[next]; seen && prev <= cost {
				continue
			}
			best[next] = cost
			heap.Push(f, &reachNode{tile: next, cost: cost})
		}
	}

	for id := range pass {
		delete(best, id)
	}
	return Range{Origin: origin, costs: best}
}
