// Package iterator implements the two edge-enumeration strategies spec
// §4.3 uses to drive the Dijkstra core: raw graph edges for pass 1, and
// previously established flow shares for pass 2.
package iterator

import (
	"sort"

	"mcfsolver/internal/linkgraph/graph"
)

// EdgeIterator enumerates the outgoing edges from a node for one Dijkstra
// relaxation step.
type EdgeIterator interface {
	SetNode(source, node graph.NodeID)
	Next() graph.NodeID
}

// GraphEdges yields every outgoing edge from a node, ignoring source (spec
// §4.3, pass 1). Targets are yielded in ascending NodeID order: the edge
// map itself has no stable iteration order in Go, and spec §5 requires
// node-ID order to be observable and deterministic.
type GraphEdges struct {
	job     *graph.LinkGraphJob
	targets []graph.NodeID
	pos     int
}

func NewGraphEdges(job *graph.LinkGraphJob) *GraphEdges {
	return &GraphEdges{job: job}
}

func (g *GraphEdges) SetNode(_, node graph.NodeID) {
	edges := g.job.Node(node).Edges()
	g.targets = g.targets[:0]
	for to, e := range edges {
		// Entries with infinite distance carry demand only, not a real
		// graph link (spec §3); a node never links to itself.
		if to == node || e.Distance() >= graph.MaxDistance {
			continue
		}
		g.targets = append(g.targets, to)
	}
	sort.Slice(g.targets, func(i, j int) bool { return g.targets[i] < g.targets[j] })
	g.pos = 0
}

func (g *GraphEdges) Next() graph.NodeID {
	if g.pos >= len(g.targets) {
		return graph.InvalidNode
	}
	to := g.targets[g.pos]
	g.pos++
	return to
}

// FlowShareEdges yields next-hops from a node's existing flow-share table,
// keyed on job[source].Station() (spec §4.3, pass 2). The station->node
// lookup is built once per job and reused across every SetNode call.
type FlowShareEdges struct {
	job           *graph.LinkGraphJob
	stationToNode map[graph.StationID]graph.NodeID
	targets       []graph.NodeID
	pos           int
}

func NewFlowShareEdges(job *graph.LinkGraphJob) *FlowShareEdges {
	return &FlowShareEdges{job: job, stationToNode: job.StationToNode()}
}

func (f *FlowShareEdges) SetNode(source, node graph.NodeID) {
	f.targets = f.targets[:0]
	f.pos = 0

	flows := f.job.Node(node).Flows()
	stat, ok := flows[f.job.Node(source).Station()]
	if !ok {
		return
	}
	for nextHop := range stat.Shares {
		if nodeID, ok := f.stationToNode[nextHop]; ok {
			f.targets = append(f.targets, nodeID)
		}
	}
	sort.Slice(f.targets, func(i, j int) bool { return f.targets[i] < f.targets[j] })
}

func (f *FlowShareEdges) Next() graph.NodeID {
	if f.pos >= len(f.targets) {
		return graph.InvalidNode
	}
	to := f.targets[f.pos]
	f.pos++
	return to
}
