package worker

import "container/heap"

// resultHeap is a container/heap.Interface implementation ordering
// PatternResults by ascending Start time — the per-worker local result set
// described in spec: results are kept here until the run ends rather than
// funnelled through a channel, so the hot execution path never contends on
// shared state.
type resultHeap []PatternResult

func (h resultHeap) Len() int { return len(h) }

func (h resultHeap) Less(i, j int) bool {
	return h[i].Start.Before(h[j].Start)
}

func (h resultHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *resultHeap) Push(x any) {
	*h = append(*h, x.(PatternResult))
}

func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sorted drains h via repeated heap.Pop, returning its contents in
// ascending start-time order. h is empty after this call.
func (h *resultHeap) sorted() []PatternResult {
	out := make([]PatternResult, 0, h.Len())
	for h.Len() > 0 {
		out = append(out, heap.Pop(h).(PatternResult))
	}
	return out
}
