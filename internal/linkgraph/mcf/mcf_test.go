package mcf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcfsolver/internal/linkgraph/graph"
	"mcfsolver/internal/linkgraph/mcf"
)

func newJob(t *testing.T, size int, settings graph.Settings) *graph.LinkGraphJob {
	t.Helper()
	return graph.NewLinkGraphJob(size, settings)
}

// TestTwoNodeTrivial is scenario S1: a single saturated edge, fully routed
// in pass 1, with a share recorded at the origin pointing at the only hop.
func TestTwoNodeTrivial(t *testing.T) {
	job := newJob(t, 2, graph.Settings{Accuracy: 10, ShortPathSaturation: 100})
	job.SetEdge(0, 1, 10, 100, 50)

	mcf.Solve(job)

	edge := job.Edge(0, 1)
	assert.Equal(t, uint(50), edge.Flow())
	assert.Equal(t, uint(0), edge.UnsatisfiedDemand())

	stat := job.Node(0).Flows()[job.Node(0).Station()]
	require.NotNil(t, stat)
	assert.Equal(t, uint(50), stat.Shares[job.Node(1).Station()])
}

// TestTriangleShortcut is scenario S2: the two-hop route wins on distance
// even though a direct, heavier edge exists between the same pair.
func TestTriangleShortcut(t *testing.T) {
	job := newJob(t, 3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	job.SetEdge(0, 1, 1, 10, 0)
	job.SetEdge(1, 2, 1, 10, 0)
	job.SetEdge(0, 2, 5, 10, 8)

	mcf.Solve(job)

	assert.Equal(t, uint(8), job.Edge(0, 1).Flow())
	assert.Equal(t, uint(8), job.Edge(1, 2).Flow())
	assert.Equal(t, uint(0), job.Edge(0, 2).Flow())
	assert.Equal(t, uint(0), job.Edge(0, 2).UnsatisfiedDemand())

	// Flow conservation (property 1): the origin's total share weight out
	// of node 0 equals the demand it assigned, and node 1's share weight
	// for the same origin equals what flowed into it.
	originStat0 := job.Node(0).Flows()[job.Node(0).Station()]
	require.NotNil(t, originStat0)
	assert.Equal(t, uint(8), originStat0.Shares[job.Node(1).Station()])

	originStat1 := job.Node(1).Flows()[job.Node(0).Station()]
	require.NotNil(t, originStat1)
	assert.Equal(t, uint(8), originStat1.Shares[job.Node(2).Station()])
}

// TestSaturationCapResidualOverloadedInSecondPass is scenario S3: pass 1
// can only push the saturation-scaled share of capacity, leaving residual
// demand that pass 2 (max_saturation = infinite, overload permitted)
// absorbs in full even though it exceeds the edge's nominal capacity.
func TestSaturationCapResidualOverloadedInSecondPass(t *testing.T) {
	job := newJob(t, 2, graph.Settings{Accuracy: 1, ShortPathSaturation: 80})
	job.SetEdge(0, 1, 1, 10, 50)

	mcf.Solve(job)

	edge := job.Edge(0, 1)
	assert.Equal(t, uint(50), edge.Flow())
	assert.Equal(t, uint(0), edge.UnsatisfiedDemand())
}

// TestUnreachableDemandStaysResidual is scenario S5: a demand-only pair
// with no real path between its endpoints is left unsatisfied by both
// passes, and never produces a share.
func TestUnreachableDemandStaysResidual(t *testing.T) {
	job := newJob(t, 3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	job.SetEdge(0, 1, 1, 10, 0)
	job.SetEdge(2, 1, 1, 10, 0)
	job.SetEdge(0, 2, graph.MaxDistance, 0, 5)

	mcf.Solve(job)

	edge := job.Edge(0, 2)
	assert.Equal(t, uint(5), edge.UnsatisfiedDemand())
	assert.Equal(t, uint(0), edge.Flow())
	assert.Empty(t, job.Node(0).Flows())
}

// TestTieBreakDeterminism is scenario S6, exercised end to end: two
// equal-cost routes from 0 to 3 exist (via 1 or via 2); the solver must
// always pick the lower-NodeID intermediate.
func TestTieBreakDeterminism(t *testing.T) {
	job := newJob(t, 4, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	job.SetEdge(0, 1, 5, 100, 0)
	job.SetEdge(0, 2, 5, 100, 0)
	job.SetEdge(1, 3, 5, 100, 0)
	job.SetEdge(2, 3, 5, 100, 0)
	job.SetEdge(0, 3, graph.MaxDistance, 0, 5) // demand-only: no direct link

	mcf.Solve(job)

	assert.Equal(t, uint(5), job.Edge(0, 1).Flow())
	assert.Equal(t, uint(5), job.Edge(1, 3).Flow())
	assert.Equal(t, uint(0), job.Edge(0, 2).Flow())
	assert.Equal(t, uint(0), job.Edge(2, 3).Flow())
	assert.Equal(t, uint(0), job.Edge(0, 3).UnsatisfiedDemand())
}

// TestSolveIsDeterministic is property 5: solving two structurally
// identical jobs yields byte-for-byte identical flows and shares.
func TestSolveIsDeterministic(t *testing.T) {
	build := func() *graph.LinkGraphJob {
		job := newJob(t, 4, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
		job.SetEdge(0, 1, 5, 100, 0)
		job.SetEdge(0, 2, 5, 100, 0)
		job.SetEdge(1, 3, 5, 100, 0)
		job.SetEdge(2, 3, 5, 100, 0)
		job.SetEdge(0, 3, graph.MaxDistance, 0, 5)
		return job
	}

	a := build()
	b := build()
	mcf.Solve(a)
	mcf.Solve(b)

	for from := graph.NodeID(0); from < 4; from++ {
		for to := graph.NodeID(0); to < 4; to++ {
			ea, eb := a.Edge(from, to), b.Edge(from, to)
			if ea == nil {
				assert.Nil(t, eb)
				continue
			}
			assert.Equal(t, ea.Flow(), eb.Flow())
			assert.Equal(t, ea.UnsatisfiedDemand(), eb.UnsatisfiedDemand())
		}
	}
}

// TestEliminateCyclesReducesCircularFlow is scenario S4: three path
// fragments belonging to the same origin, forked in a chain whose node
// values loop A->B->C->A, form a logical cycle in the next-hop relation
// even though the parent chain itself is a tree. The bottleneck flow (3,
// carried by the B->C fragment) must be subtracted from every fragment
// and every edge on the cycle, and a second sweep must find nothing left.
func TestEliminateCyclesReducesCircularFlow(t *testing.T) {
	job := newJob(t, 3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	job.SetEdge(0, 1, 1, 100, 0)
	job.SetEdge(1, 2, 1, 100, 0)
	job.SetEdge(2, 0, 1, 100, 0)
	job.Edge(0, 1).AddFlow(5)
	job.Edge(1, 2).AddFlow(3)
	job.Edge(2, 0).AddFlow(7)

	root := graph.NewPath(0, true)
	pAB := graph.NewPath(1, false)
	pAB.Fork(job, root, 100, 100, 1)
	pAB.AddFlowDirect(5)

	pBC := graph.NewPath(2, false)
	pBC.Fork(job, pAB, 100, 100, 1)
	pBC.AddFlowDirect(3)

	pCA := graph.NewPath(0, false)
	pCA.Fork(job, pBC, 100, 100, 1)
	pCA.AddFlowDirect(7)

	found := mcf.EliminateCycles(job)
	require.True(t, found)

	assert.Equal(t, uint(2), pAB.Flow())
	assert.Equal(t, uint(0), pBC.Flow())
	assert.Equal(t, uint(4), pCA.Flow())

	assert.Equal(t, uint(2), job.Edge(0, 1).Flow())
	assert.Equal(t, uint(0), job.Edge(1, 2).Flow())
	assert.Equal(t, uint(4), job.Edge(2, 0).Flow())

	// No cycles after pass 1 (property 4): a second sweep over the same,
	// now-acyclic fragments finds nothing left to cancel.
	assert.False(t, mcf.EliminateCycles(job))
}
