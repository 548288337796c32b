package dijkstra

import "mcfsolver/internal/linkgraph/graph"

// frontier is the ordered-set the Dijkstra core relaxes against: a small
// indexed binary heap. Go has no std::set equivalent and none of the
// example repos pull in a third-party priority-queue library, so this is
// the idiomatic substitute (see DESIGN.md) — modeled on the hand-rolled
// MinHeap style used for routing priority queues elsewhere in the corpus,
// generalized to heap.Fix-free extract-then-reinsert as spec §9 requires.
type frontier struct {
	items []*graph.Path
	pos   []int // NodeID -> index in items, -1 if not present
	less  func(a, b *graph.Path) bool
}

func newFrontier(size int, less func(a, b *graph.Path) bool) *frontier {
	pos := make([]int, size)
	for i := range pos {
		pos[i] = -1
	}
	return &frontier{pos: pos, less: less}
}

func (f *frontier) empty() bool { return len(f.items) == 0 }

func (f *frontier) push(p *graph.Path) {
	f.items = append(f.items, p)
	i := len(f.items) - 1
	f.pos[p.Node()] = i
	f.siftUp(i)
}

func (f *frontier) pop() *graph.Path {
	top := f.items[0]
	n := len(f.items)
	f.swap(0, n-1)
	f.items = f.items[:n-1]
	f.pos[top.Node()] = -1
	if len(f.items) > 0 {
		f.siftDown(0)
	}
	return top
}

// remove takes p out of the frontier before its key (Fork) is mutated.
func (f *frontier) remove(p *graph.Path) {
	i := f.pos[p.Node()]
	if i < 0 {
		return
	}
	n := len(f.items)
	f.swap(i, n-1)
	f.items = f.items[:n-1]
	f.pos[p.Node()] = -1
	if i < len(f.items) {
		f.siftDown(i)
		f.siftUp(i)
	}
}

func (f *frontier) swap(i, j int) {
	f.items[i], f.items[j] = f.items[j], f.items[i]
	f.pos[f.items[i].Node()] = i
	f.pos[f.items[j].Node()] = j
}

func (f *frontier) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !f.less(f.items[i], f.items[parent]) {
			break
		}
		f.swap(i, parent)
		i = parent
	}
}

func (f *frontier) siftDown(i int) {
	n := len(f.items)
	for {
		smallest := i
		if l := 2*i + 1; l < n && f.less(f.items[l], f.items[smallest]) {
			smallest = l
		}
		if r := 2*i + 2; r < n && f.less(f.items[r], f.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			break
		}
		f.swap(i, smallest)
		i = smallest
	}
}
