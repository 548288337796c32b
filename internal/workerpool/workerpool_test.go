package workerpool_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcfsolver/internal/linkgraph/graph"
	"mcfsolver/internal/workerpool"
)

func TestSubmitSolvesEachJobIndependently(t *testing.T) {
	pool, err := workerpool.New(2, nil)
	require.NoError(t, err)
	defer pool.Release()

	var mu sync.Mutex
	var solved []uint

	for i := 0; i < 5; i++ {
		job := graph.NewLinkGraphJob(2, graph.Settings{Accuracy: 1, ShortPathSaturation: 100})
		job.SetEdge(0, 1, 1, 100, uint(i+1))

		err := pool.Submit(job, func(j *graph.LinkGraphJob) {
			mu.Lock()
			solved = append(solved, j.Edge(0, 1).Flow())
			mu.Unlock()
		})
		require.NoError(t, err)
	}

	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, solved, 5)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5}, solved)
}
