// Package dijkstra implements the generic best-first search spec §4.4
// describes: a single algorithm parameterized by an annotation.Ranking
// discipline and an iterator.EdgeIterator strategy, producing a full
// per-source best-path vector.
package dijkstra

import (
	"mcfsolver/internal/linkgraph/annotation"
	"mcfsolver/internal/linkgraph/graph"
	"mcfsolver/internal/linkgraph/iterator"
)

// Run allocates one Path per node, relaxes the frontier until empty, and
// returns the resulting path vector (paths[sourceNode] is the root; every
// other entry is either still unreached or attached to the tree).
//
// A Dijkstra run allocates exactly N fresh path objects per call; a path
// only joins its parent node's Paths() list once Fork actually attaches it
// (spec §3/§9). Cleanup later detaches the ones that didn't end up
// carrying flow.
func Run(job *graph.LinkGraphJob, sourceNode graph.NodeID, ranking annotation.Ranking, iter iterator.EdgeIterator, maxSaturation uint) []*graph.Path {
	size := job.Size()
	paths := make([]*graph.Path, size)
	front := newFrontier(size, ranking.Less)

	for i := 0; i < size; i++ {
		node := graph.NodeID(i)
		p := graph.NewPath(node, node == sourceNode)
		paths[i] = p
		front.push(p)
	}

	for !front.empty() {
		source := front.pop()
		from := source.Node()
		iter.SetNode(sourceNode, from)
		for to := iter.Next(); to != graph.InvalidNode; to = iter.Next() {
			if to == from {
				continue // self-edge: a consumption signal, not an edge.
			}
			edge := job.Edge(from, to)
			if edge == nil || edge.Distance() >= graph.MaxDistance {
				panic("dijkstra: edge iterator yielded an absent edge")
			}

			capacity := edge.Capacity()
			if maxSaturation != graph.MaxCapacity {
				capacity = capacity * maxSaturation / 100
				if capacity == 0 {
					capacity = 1
				}
			}
			free := int(capacity) - int(edge.Flow())
			dist := edge.Distance() + 1 // punish in-between stops a little

			dest := paths[to]
			if ranking.IsBetter(dest, source, capacity, free, dist) {
				front.remove(dest)
				dest.Fork(job, source, capacity, free, dist)
				front.push(dest)
			}
		}
	}
	return paths
}

// Cleanup disowns the root's direct children, then for every surviving
// path walks parentward pruning nodes with zero flow and zero children,
// stopping at the root; the root itself is simply dropped (spec §4.7).
func Cleanup(job *graph.LinkGraphJob, sourceID graph.NodeID, paths []*graph.Path) {
	source := paths[sourceID]
	paths[sourceID] = nil

	for _, path := range paths {
		if path == nil {
			continue
		}
		if path.Parent() == source {
			path.Detach(job)
		}
		for path != source && path != nil && path.Flow() == 0 {
			parent := path.Parent()
			path.Detach(job)
			path = parent
		}
	}
}
