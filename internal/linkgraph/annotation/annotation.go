// Package annotation implements the two path-ranking disciplines spec §4.2
// uses to order the Dijkstra frontier: distance-priority (pass 1) and
// capacity-priority (pass 2). Both produce a strict weak order with no
// ties — ties are broken by NodeID so distinct nodes never compare equal.
package annotation

import "mcfsolver/internal/linkgraph/graph"

// Ranking is the strategy the Dijkstra core is parameterized over. Two
// disciplines suffice; they share nothing beyond operating on *graph.Path,
// so a small interface is all the "templating" spec §9 asks for.
type Ranking interface {
	// IsBetter reports whether forking dest via base with a new edge of the
	// given capacity/free-capacity/distance would improve on dest's current
	// annotation.
	IsBetter(dest, base *graph.Path, cap uint, freeCap int, dist uint) bool

	// Less is the frontier's total order: Less(a, b) reports whether a
	// should be popped (processed) before b. Must never report two
	// distinct paths as equivalent.
	Less(a, b *graph.Path) bool
}

// Distance ranks paths by accumulated edge distance (spec §4.2, pass 1).
type Distance struct{}

func (Distance) IsBetter(dest, base *graph.Path, cap uint, freeCap int, dist uint) bool {
	if base.Distance() == graph.MaxDistance {
		return false
	}
	if dest.Distance() == graph.MaxDistance {
		return true
	}

	if freeCap > 0 && base.FreeCapacity() > 0 {
		if dest.FreeCapacity() > 0 {
			return base.Distance()+dist < dest.Distance()
		}
		return true
	}
	if dest.FreeCapacity() > 0 {
		return false
	}
	return base.Distance()+dist < dest.Distance()
}

// Less sorts lower distance first; ties broken by smaller NodeID.
func (Distance) Less(a, b *graph.Path) bool {
	if a == b {
		return false
	}
	if a.Distance() != b.Distance() {
		return a.Distance() < b.Distance()
	}
	return a.Node() < b.Node()
}

// Capacity ranks paths by bottleneck capacity ratio (spec §4.2, pass 2).
type Capacity struct{}

func (Capacity) IsBetter(dest, base *graph.Path, cap uint, freeCap int, dist uint) bool {
	minFree := base.FreeCapacity()
	if freeCap < minFree {
		minFree = freeCap
	}
	minCap := base.Capacity()
	if cap < minCap {
		minCap = cap
	}
	minCapRatio := graph.CapacityRatio(minFree, minCap)
	destRatio := dest.GetCapacityRatio()

	if minCapRatio == destRatio {
		if base.Distance() == graph.MaxDistance {
			return false
		}
		return base.Distance()+dist < dest.Distance()
	}
	return minCapRatio > destRatio
}

// Less sorts higher capacity ratio first; ties broken by *larger* NodeID —
// the opposite direction from Distance's tie-break, required so that the
// comparator stays antisymmetric (spec §4.2).
func (Capacity) Less(a, b *graph.Path) bool {
	if a == b {
		return false
	}
	ra, rb := a.GetCapacityRatio(), b.GetCapacityRatio()
	if ra != rb {
		return ra > rb
	}
	return a.Node() > b.Node()
}
