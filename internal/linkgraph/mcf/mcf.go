// Package mcf implements the two-pass multi-commodity flow driver spec
// §4.5-§4.7 describes: pass 1 saturates shortest paths edge by edge with
// cycle elimination interleaved, pass 2 distributes whatever demand is left
// over the shares pass 1 already established.
package mcf

import (
	"sort"

	"mcfsolver/internal/linkgraph/annotation"
	"mcfsolver/internal/linkgraph/dijkstra"
	"mcfsolver/internal/linkgraph/graph"
	"mcfsolver/internal/linkgraph/iterator"
)

// Solve runs both passes over job in place.
func Solve(job *graph.LinkGraphJob) {
	RunFirstPass(job)
	RunSecondPass(job)
}

// RunFirstPass saturates the shortest paths first (spec §4.7, pass 1): for
// each source, a distance-ranked Dijkstra run over real graph edges, then a
// demand sweep pushing flow onto whatever path reached each destination.
// Demand that would overload every path is allowed through once, the first
// time it is seen, so that isolated destinations aren't starved entirely.
// Cycle elimination only runs once a round makes no further trivial
// progress — mirroring the original's short-circuited loop condition keeps
// a productive round from paying for a cycle sweep it doesn't need yet.
func RunFirstPass(job *graph.LinkGraphJob) {
	size := job.Size()
	settings := job.Settings()
	accuracy := settings.Accuracy
	maxSaturation := settings.ShortPathSaturation

	for {
		moreLoops := false
		for s := 0; s < size; s++ {
			source := graph.NodeID(s)
			paths := dijkstra.Run(job, source, annotation.Distance{}, iterator.NewGraphEdges(job), maxSaturation)
			sourceStation := job.Node(source).Station()

			for d := 0; d < size; d++ {
				dest := graph.NodeID(d)
				edge := job.Edge(source, dest)
				if edge == nil || edge.UnsatisfiedDemand() == 0 {
					continue
				}
				path := paths[dest]
				if path.FreeCapacity() > 0 && pushFlow(job, sourceStation, edge, path, accuracy, maxSaturation) > 0 {
					if edge.UnsatisfiedDemand() > 0 {
						moreLoops = true
					}
				} else if edge.UnsatisfiedDemand() == edge.Demand() && path.FreeCapacity() > graph.FreeCapacityUnreachable {
					pushFlow(job, sourceStation, edge, path, accuracy, graph.MaxCapacity)
				}
			}
			dijkstra.Cleanup(job, source, paths)
		}
		if !moreLoops && !EliminateCycles(job) {
			break
		}
	}
}

// RunSecondPass distributes whatever demand pass 1 left unsatisfied over
// the flow shares pass 1 recorded, ranking by capacity ratio instead of
// distance and walking those shares instead of raw graph edges (spec §4.7,
// pass 2). The artificial saturation cap is disabled here: a path already
// carrying share traffic may be loaded past its "normal" ceiling.
func RunSecondPass(job *graph.LinkGraphJob) {
	size := job.Size()
	accuracy := job.Settings().Accuracy
	shareEdges := iterator.NewFlowShareEdges(job)

	for demandLeft := true; demandLeft; {
		demandLeft = false
		for s := 0; s < size; s++ {
			source := graph.NodeID(s)
			paths := dijkstra.Run(job, source, annotation.Capacity{}, shareEdges, graph.MaxCapacity)
			sourceStation := job.Node(source).Station()

			for d := 0; d < size; d++ {
				dest := graph.NodeID(d)
				edge := job.Edge(source, dest)
				if edge == nil {
					continue
				}
				path := paths[dest]
				if edge.UnsatisfiedDemand() > 0 && path.FreeCapacity() > graph.FreeCapacityUnreachable {
					pushFlow(job, sourceStation, edge, path, accuracy, graph.MaxCapacity)
					if edge.UnsatisfiedDemand() > 0 {
						demandLeft = true
					}
				}
			}
			dijkstra.Cleanup(job, source, paths)
		}
	}
}

// pushFlow pushes clamp(edge.Demand()/accuracy, 1, edge.UnsatisfiedDemand())
// units of flow along path, satisfies that much demand on edge, and records
// the flow actually pushed as a share at every node of the path except the
// destination, the origin included (spec §4.5).
func pushFlow(job *graph.LinkGraphJob, origin graph.StationID, edge *graph.Edge, path *graph.Path, accuracy, maxSaturation uint) uint {
	want := edge.Demand() / accuracy
	if want < 1 {
		want = 1
	}
	if want > edge.UnsatisfiedDemand() {
		want = edge.UnsatisfiedDemand()
	}

	flow := path.AddFlow(want, job, maxSaturation)
	edge.SatisfyDemand(flow)
	if flow > 0 {
		recordShares(job, origin, path, flow)
	}
	return flow
}

// recordShares walks from leaf to root recording, at every node above the
// leaf (the origin included), a weighted next-hop share for origin (spec
// §3's FlowStat). This is
// the only place flow shares are written; pass 2's FlowShareEdges iterator
// reads exactly what this accumulates.
func recordShares(job *graph.LinkGraphJob, origin graph.StationID, leaf *graph.Path, flow uint) {
	cur := leaf
	for cur.Parent() != nil {
		parent := cur.Parent()
		job.Node(parent.Node()).AddShare(origin, job.Node(cur.Node()).Station(), flow)
		cur = parent
	}
}

// visitState is the three-valued search marker spec §9 uses in place of the
// single sentinel pointer the original's recursive cycle search relies on:
// an unvisited node has never been reached in this origin's search, an
// in-progress node is somewhere on the active recursion stack (via[node]
// names the forward hop currently being followed from it), and a resolved node has been
// fully searched with no cycle found.
type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	resolved
)

// EliminateCycles searches, starting from every node in turn as an origin,
// for cycles in the flow carried by paths attached to that origin and
// cancels them (spec §4.6). Returns whether anything was found.
func EliminateCycles(job *graph.LinkGraphJob) bool {
	size := job.Size()
	state := make([]visitState, size)
	via := make([]*graph.Path, size)

	found := false
	for node := 0; node < size; node++ {
		for i := range state {
			state[i] = unvisited
		}
		for i := range via {
			via[i] = nil
		}
		if searchCycles(job, state, via, graph.NodeID(node), graph.NodeID(node)) {
			found = true
		}
	}
	return found
}

// searchCycles implements the recursive per-origin cycle search. next is
// the node currently being examined; state[] marks which nodes are on the
// active stack, and via[] holds the forward hop each of them is following,
// which is what a found cycle is walked back around with (spec §4.6/§9).
func searchCycles(job *graph.LinkGraphJob, state []visitState, via []*graph.Path, origin, next graph.NodeID) bool {
	switch state[next] {
	case resolved:
		return false
	case inProgress:
		cycleBegin := via[next]
		flow := findCycleFlow(via, cycleBegin)
		if flow == 0 {
			return false
		}
		eliminateCycle(job, via, cycleBegin, flow)
		return true
	}

	// Summarize: paths sharing this origin and the same forward hop get
	// merged into one, so a later cycle search sees one flow, not several.
	nextHops := make(map[graph.NodeID]*graph.Path)
	order := make([]graph.NodeID, 0, 4)
	for _, child := range *job.Node(next).Paths() {
		if child.Origin() != origin {
			continue
		}
		if existing, ok := nextHops[child.Node()]; ok {
			extra := child.Flow()
			existing.AddFlowDirect(extra)
			child.ReduceFlow(extra)
		} else {
			nextHops[child.Node()] = child
			order = append(order, child.Node())
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	found := false
	state[next] = inProgress
	for _, hop := range order {
		child := nextHops[hop]
		if child.Flow() == 0 {
			continue
		}
		via[next] = child
		if searchCycles(job, state, via, origin, child.Node()) {
			found = true
		}
	}
	// A cycle found anywhere in this branch may have changed flows enough
	// to expose another one, so it has to be searched again if revisited;
	// only a clean branch gets marked resolved for good.
	if found {
		state[next] = unvisited
	} else {
		state[next] = resolved
	}
	return found
}

// findCycleFlow walks forward via via[] starting at cycleBegin until it
// loops back, returning the minimum flow along the way.
func findCycleFlow(via []*graph.Path, cycleBegin *graph.Path) uint {
	flow := ^uint(0)
	cycleEnd := cycleBegin
	cur := cycleBegin
	for {
		if f := cur.Flow(); f < flow {
			flow = f
		}
		cur = via[cur.Node()]
		if cur == cycleEnd {
			break
		}
	}
	return flow
}

// eliminateCycle subtracts flow from every path and edge around the cycle
// starting at cycleBegin.
func eliminateCycle(job *graph.LinkGraphJob, via []*graph.Path, cycleBegin *graph.Path, flow uint) {
	cycleEnd := cycleBegin
	cur := cycleBegin
	for {
		prev := cur.Node()
		cur.ReduceFlow(flow)
		cur = via[cur.Node()]
		job.Edge(prev, cur.Node()).RemoveFlow(flow)
		if cur == cycleEnd {
			break
		}
	}
}
