package annotation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mcfsolver/internal/linkgraph/annotation"
	"mcfsolver/internal/linkgraph/graph"
)

func fork(t *testing.T, job *graph.LinkGraphJob, node graph.NodeID, parent *graph.Path, cap uint, free int, dist uint) *graph.Path {
	t.Helper()
	p := graph.NewPath(node, false)
	p.Fork(job, parent, cap, free, dist)
	return p
}

// TestDistanceIsBetterPrefersShorterWhenBothHaveCapacity covers spec §4.2
// rule 3: when both candidate and current have free capacity, shorter
// distance wins.
func TestDistanceIsBetterPrefersShorterWhenBothHaveCapacity(t *testing.T) {
	job := graph.NewLinkGraphJob(3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	root := graph.NewPath(0, true)
	dest := fork(t, job, 1, root, 10, 10, 20) // distance 20, free_capacity 10

	var d annotation.Distance
	// base offers distance 0+1=1, free capacity 5: strictly shorter, should win.
	assert.True(t, d.IsBetter(dest, root, 5, 5, 1))
}

// TestDistanceIsBetterAnyConnectedBeatsDisconnected covers rule 2: a
// disconnected destination always loses to any connected candidate.
func TestDistanceIsBetterAnyConnectedBeatsDisconnected(t *testing.T) {
	unreached := graph.NewPath(1, false)
	root := graph.NewPath(0, true)

	var d annotation.Distance
	assert.True(t, d.IsBetter(unreached, root, 1, 1, 100))
}

// TestDistanceIsBetterDisconnectedBaseNeverWins covers rule 1: a base with
// infinite distance can never improve anything.
func TestDistanceIsBetterDisconnectedBaseNeverWins(t *testing.T) {
	disconnectedBase := graph.NewPath(5, false)
	dest := graph.NewPath(1, false)

	var d annotation.Distance
	assert.False(t, d.IsBetter(dest, disconnectedBase, 10, 10, 1))
}

// TestDistanceIsBetterCapacityTrumpsWhenDestOutOfCapacity covers rule 3's
// second case: if the candidate has free capacity but the destination doesn't, the
// candidate wins regardless of distance.
func TestDistanceIsBetterCapacityTrumpsWhenDestOutOfCapacity(t *testing.T) {
	job := graph.NewLinkGraphJob(3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	root := graph.NewPath(0, true)
	dest := fork(t, job, 1, root, 10, 0, 1) // dest has zero free capacity

	var d annotation.Distance
	// candidate free_cap=5 > 0 while dest's free capacity is 0: candidate wins.
	assert.True(t, d.IsBetter(dest, root, 5, 5, 1000))
}

// TestDistanceLessOrdersByDistanceThenSmallerNodeID verifies the tie-break
// direction spec §4.2 requires for the distance ranking.
func TestDistanceLessOrdersByDistanceThenSmallerNodeID(t *testing.T) {
	job := graph.NewLinkGraphJob(3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	root := graph.NewPath(0, true)
	a := fork(t, job, 1, root, 10, 10, 5)
	b := fork(t, job, 2, root, 10, 10, 5) // same distance, larger node

	var d annotation.Distance
	assert.True(t, d.Less(a, b))
	assert.False(t, d.Less(b, a))
	assert.False(t, d.Less(a, a))
}

// TestCapacityLessOrdersByRatioThenLargerNodeID verifies the capacity
// ranking's tie-break runs the opposite direction from distance's, as
// spec §4.2 requires for comparator antisymmetry.
func TestCapacityLessOrdersByRatioThenLargerNodeID(t *testing.T) {
	job := graph.NewLinkGraphJob(3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	root := graph.NewPath(0, true)
	a := fork(t, job, 1, root, 10, 10, 1)
	b := fork(t, job, 2, root, 10, 10, 1) // identical ratio, larger node

	var c annotation.Capacity
	assert.True(t, c.Less(b, a))
	assert.False(t, c.Less(a, b))
}

// TestCapacityIsBetterPrefersHigherRatio verifies the core comparison in
// spec §4.2's capacity annotation.
func TestCapacityIsBetterPrefersHigherRatio(t *testing.T) {
	job := graph.NewLinkGraphJob(3, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	root := graph.NewPath(0, true)
	dest := fork(t, job, 1, root, 4, 1, 1) // ratio 1*16/4 = 4

	var c annotation.Capacity
	// base is a fresh, never-forked (disconnected) path: its ratio floors
	// to -infinity, so it can never beat dest's real ratio of 4.
	assert.False(t, c.IsBetter(dest, graph.NewPath(9, false), 10, 10, 1))
}

// TestComparatorStrictnessNeverEquatesDistinctPaths is property 6 from
// spec §8: for both annotations, Less must never report two distinct
// paths as equivalent (a ~ b meaning !Less(a,b) && !Less(b,a)).
func TestComparatorStrictnessNeverEquatesDistinctPaths(t *testing.T) {
	job := graph.NewLinkGraphJob(4, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
	root := graph.NewPath(0, true)
	a := fork(t, job, 1, root, 10, 10, 3)
	b := fork(t, job, 2, root, 10, 10, 3) // identical annotation, distinct node

	var d annotation.Distance
	var c annotation.Capacity
	assert.NotEqual(t, d.Less(a, b), d.Less(b, a))
	assert.NotEqual(t, c.Less(a, b), c.Less(b, a))
}
