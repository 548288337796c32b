// Package graph implements the external LinkGraphJob collaborator described
// in spec §3 and §6: the capacitated, demand-bearing graph the MCF solver
// mutates in place, together with the per-source path trees (spec §3/§4.1)
// attached to it. Ingestion, persistence and the station/vehicle domain
// model are out of scope; this package only carries the data the solver
// needs and the Path type the solver builds while routing.
package graph

import "math"

// NodeID identifies a node by its dense position in [0, N).
type NodeID int

// InvalidNode is returned by iterators to signal "no more edges".
const InvalidNode NodeID = -1

// StationID is an opaque external station identifier.
type StationID int64

// MaxDistance represents "no edge" / an unreachable distance.
const MaxDistance uint = math.MaxUint32

// Edge holds the mutable state for one ordered pair (from, to). Distance is
// immutable once the edge is created; capacity, flow and demand bookkeeping
// are mutated by the solver.
type Edge struct {
	distance          uint
	capacity          uint
	flow              uint
	demand            uint
	unsatisfiedDemand uint
}

// NewEdge creates an edge with the given immutable distance and capacity,
// demand fully unsatisfied.
func NewEdge(distance, capacity, demand uint) *Edge {
	return &Edge{
		distance:          distance,
		capacity:          capacity,
		demand:            demand,
		unsatisfiedDemand: demand,
	}
}

func (e *Edge) Distance() uint          { return e.distance }
func (e *Edge) Capacity() uint          { return e.capacity }
func (e *Edge) Flow() uint              { return e.flow }
func (e *Edge) Demand() uint            { return e.demand }
func (e *Edge) UnsatisfiedDemand() uint { return e.unsatisfiedDemand }

// SatisfyDemand decreases unsatisfied demand by f, floored at zero.
func (e *Edge) SatisfyDemand(f uint) {
	if f > e.unsatisfiedDemand {
		f = e.unsatisfiedDemand
	}
	e.unsatisfiedDemand -= f
}

// AddFlow is invoked by Path.AddFlow while walking from leaf to root.
func (e *Edge) AddFlow(f uint) { e.flow += f }

// RemoveFlow is invoked directly by cycle elimination.
func (e *Edge) RemoveFlow(f uint) {
	if f > e.flow {
		f = e.flow
	}
	e.flow -= f
}

// Settings carries the tuning knobs spec §6 attributes to job.Settings().
type Settings struct {
	Accuracy            uint
	ShortPathSaturation uint // percentage, 1..100
}

// FlowStat is the weighted share map from next-hop station to integer
// share, recorded for one origin station at one node.
type FlowStat struct {
	Shares map[StationID]uint
}

// FlowStatMap maps origin station to the FlowStat recorded at a node.
type FlowStatMap map[StationID]*FlowStat

// Node is the external node view: station identity, outgoing edges, the
// path fragments attached here across all sources, and the per-source
// flow-share table.
type Node struct {
	station StationID
	edges   map[NodeID]*Edge
	paths   PathList
	flows   FlowStatMap
}

func newNode(station StationID) *Node {
	return &Node{
		station: station,
		edges:   make(map[NodeID]*Edge),
		flows:   make(FlowStatMap),
	}
}

func (n *Node) Station() StationID { return n.station }

// Paths returns the paths currently forked with this node as parent: the
// forward hops departing from here, accumulated across every Dijkstra run
// that has ever touched this node. Cycle elimination (spec §4.6) is the
// sole reader; flow shares are recorded directly at push time instead; see
// mcf.recordShares. Fork/Detach keep this list current.
func (n *Node) Paths() *PathList { return &n.paths }

// AppendPath registers p as a forward hop departing from this node. Called
// only by Path.Fork, immediately after p.parent is set to a path at this
// node.
func (n *Node) AppendPath(p *Path) { n.paths = append(n.paths, p) }

// RemovePath unregisters p, called only by Path.Detach right before
// clearing p.parent. O(len(paths)) but path lists stay small in practice.
func (n *Node) RemovePath(p *Path) {
	for i, cand := range n.paths {
		if cand == p {
			n.paths[i] = n.paths[len(n.paths)-1]
			n.paths = n.paths[:len(n.paths)-1]
			return
		}
	}
}

func (n *Node) Flows() FlowStatMap { return n.flows }

func (n *Node) AddEdge(to NodeID, e *Edge) { n.edges[to] = e }

func (n *Node) Edges() map[NodeID]*Edge { return n.edges }

// AddShare records a weighted next-hop share for the given origin station,
// creating the FlowStat entry on first use.
func (n *Node) AddShare(origin, nextHop StationID, weight uint) {
	fs, ok := n.flows[origin]
	if !ok {
		fs = &FlowStat{Shares: make(map[StationID]uint)}
		n.flows[origin] = fs
	}
	fs.Shares[nextHop] += weight
}

// LinkGraphJob owns every node, edge, path and share table for one solve.
// It is mutated strictly single-threaded, per spec §5, and performs no I/O.
type LinkGraphJob struct {
	nodes    []*Node
	settings Settings
}

// NewLinkGraphJob allocates a job with n nodes, station IDs 0..n-1.
func NewLinkGraphJob(n int, settings Settings) *LinkGraphJob {
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = newNode(StationID(i))
	}
	return &LinkGraphJob{nodes: nodes, settings: settings}
}

func (j *LinkGraphJob) Size() int { return len(j.nodes) }

func (j *LinkGraphJob) Node(id NodeID) *Node { return j.nodes[id] }

func (j *LinkGraphJob) Settings() Settings { return j.settings }

// Edge looks up the edge from -> to, or nil if none exists (distance = inf).
func (j *LinkGraphJob) Edge(from, to NodeID) *Edge {
	return j.nodes[from].edges[to]
}

// SetEdge installs (or replaces) a capacitated edge from -> to.
func (j *LinkGraphJob) SetEdge(from, to NodeID, distance, capacity, demand uint) {
	j.nodes[from].AddEdge(to, NewEdge(distance, capacity, demand))
}

// StationToNode builds the station->node lookup FlowShareEdges needs,
// built once per job per spec §4.3.
func (j *LinkGraphJob) StationToNode() map[StationID]NodeID {
	m := make(map[StationID]NodeID, len(j.nodes))
	for i, n := range j.nodes {
		m[n.station] = NodeID(i)
	}
	return m
}
