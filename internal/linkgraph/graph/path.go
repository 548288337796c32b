package graph

import "math"

// MaxCapacity represents an unbounded bottleneck capacity (root paths start
// here, per spec §3).
const MaxCapacity uint = math.MaxUint32

// FreeCapacityUnreachable is the INT_MIN sentinel spec §3 assigns to
// free_capacity for a path with no edge yet / that is unreachable.
const FreeCapacityUnreachable int = math.MinInt32

// PathList is the list of path fragments a Node carries (spec §3's
// "attached path-tree fragments").
type PathList = []*Path

// Path is a node in a rooted in-tree: parent edges point toward the root,
// which is the source node of one Dijkstra run (spec §3).
type Path struct {
	node         NodeID
	parent       *Path
	numChildren  int
	distance     uint
	capacity     uint
	freeCapacity int
	flow         uint
}

// NewPath allocates a path for the given node. Root paths (isSource) start
// with distance 0 and unbounded capacity; non-roots start disconnected.
func NewPath(node NodeID, isSource bool) *Path {
	p := &Path{node: node}
	if isSource {
		p.distance = 0
		p.capacity = MaxCapacity
		p.freeCapacity = int(MaxCapacity)
	} else {
		p.distance = MaxDistance
		p.capacity = 0
		p.freeCapacity = FreeCapacityUnreachable
	}
	return p
}

func (p *Path) Node() NodeID   { return p.node }
func (p *Path) Parent() *Path  { return p.parent }
func (p *Path) NumChildren() int { return p.numChildren }
func (p *Path) Distance() uint { return p.distance }
func (p *Path) Capacity() uint { return p.capacity }
func (p *Path) FreeCapacity() int { return p.freeCapacity }
func (p *Path) Flow() uint     { return p.flow }

// Origin walks up to the root and returns its node, the origin spec §3
// attributes to every path in a tree.
func (p *Path) Origin() NodeID {
	cur := p
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur.node
}

// CapacityRatio is the fixed-point bottleneck ratio annotation.Capacity
// ranks by (spec §4.2 / GLOSSARY). Kept on Path itself, mirroring the
// original's Path::GetCapacityRatio, so both the live path and ad-hoc
// candidate values share one formula.
func CapacityRatio(free int, total uint) int {
	if total == 0 {
		if free > 0 {
			return math.MaxInt32
		}
		return math.MinInt32
	}
	return free * 16 / int(total)
}

// GetCapacityRatio returns this path's own capacity ratio.
func (p *Path) GetCapacityRatio() int {
	return CapacityRatio(p.freeCapacity, p.capacity)
}

// Fork detaches this path from its current parent and attaches it to
// newParent, recomputing distance/capacity/free_capacity (spec §4.1). A
// no-op when newParent is this path itself. The path is registered on
// newParent's node's path list — Node.Paths() holds the paths forked with
// this node as parent, i.e. the forward hops departing from it, which is
// what cycle elimination (spec §4.6) walks.
func (p *Path) Fork(job *LinkGraphJob, newParent *Path, edgeCapacity uint, edgeFreeCapacity int, edgeDistance uint) {
	if newParent == p {
		return
	}
	p.Detach(job)
	p.parent = newParent
	newParent.numChildren++
	job.Node(newParent.node).AppendPath(p)

	p.distance = newParent.distance + edgeDistance
	p.capacity = minUint(newParent.capacity, edgeCapacity)
	p.freeCapacity = minInt(newParent.freeCapacity, edgeFreeCapacity)
}

// Detach decrements the parent's child count, unregisters this path from
// the parent node's path list, and clears the parent link.
func (p *Path) Detach(job *LinkGraphJob) {
	if p.parent == nil {
		return
	}
	p.parent.numChildren--
	job.Node(p.parent.node).RemovePath(p)
	p.parent = nil
}

// AddFlow walks from this path up to the root, pushing min(want, residual)
// flow onto every edge and every intermediate path node along the way
// (spec §4.1). maxSaturation == MaxCapacity disables the artificial cap.
func (p *Path) AddFlow(want uint, job *LinkGraphJob, maxSaturation uint) uint {
	if p.parent == nil {
		return 0
	}

	free := residual(job, p, maxSaturation)
	flow := want
	if free < flow {
		flow = free
	}
	if flow == 0 {
		return 0
	}

	cur := p
	for cur.parent != nil {
		edge := job.Edge(cur.parent.node, cur.node)
		edge.AddFlow(flow)
		cur.flow += flow
		cur = cur.parent
	}
	return flow
}

// residual computes min over path edges of max(0, residual(e)), matching
// the bound AddFlow must respect. maxSaturation == MaxCapacity disables
// the cap entirely: the path may be overloaded past its nominal capacity,
// per spec §4.1 ("if max_saturation = ∞, residual is unbounded above").
func residual(job *LinkGraphJob, leaf *Path, maxSaturation uint) uint {
	if maxSaturation == MaxCapacity {
		return MaxCapacity
	}

	lowest := ^uint(0) // max uint, narrowed below
	cur := leaf
	for cur.parent != nil {
		edge := job.Edge(cur.parent.node, cur.node)
		cap := edge.Capacity() * maxSaturation / 100
		if cap == 0 {
			cap = 1
		}
		var r uint
		if cap > edge.Flow() {
			r = cap - edge.Flow()
		} else {
			r = 0
		}
		if r < lowest {
			lowest = r
		}
		cur = cur.parent
	}
	return lowest
}

// AddFlowDirect adds f to this path's own flow field only, used by cycle
// elimination's manual chain walk when merging parallel sibling paths.
func (p *Path) AddFlowDirect(f uint) { p.flow += f }

// ReduceFlow subtracts f from this path's own flow only; cycle elimination
// walks the chain manually and calls Edge.RemoveFlow separately (spec §4.1).
func (p *Path) ReduceFlow(f uint) {
	if f > p.flow {
		f = p.flow
	}
	p.flow -= f
}

func minUint(a, b uint) uint {
	if a < b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
