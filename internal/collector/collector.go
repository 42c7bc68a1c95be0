// Package collector merges each worker's per-worker result heap into one
// globally start-time-ordered sequence and writes it out as the benchmark's
// result CSV.
package collector

import (
	"container/heap"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jpequegn/kvbench/internal/worker"
)

// Merge performs a k-way merge of N already start-time-sorted result
// slices (one per worker) into a single ascending-start-time sequence. Each
// input slice is assumed sorted, which is what worker.Worker.Run produces.
func Merge(perWorker [][]worker.PatternResult) []worker.PatternResult {
	var h mergeHeap
	for i, results := range perWorker {
		if len(results) > 0 {
			h = append(h, mergeCursor{results: results, worker: i})
		}
	}
	heap.Init(&h)

	total := 0
	for _, results := range perWorker {
		total += len(results)
	}

	out := make([]worker.PatternResult, 0, total)
	for h.Len() > 0 {
		cur := h[0]
		out = append(out, cur.results[0])
		if len(cur.results) > 1 {
			h[0] = mergeCursor{results: cur.results[1:], worker: cur.worker}
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return out
}

type mergeCursor struct {
	results []worker.PatternResult
	worker  int
}

type mergeHeap []mergeCursor

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	return h[i].results[0].Start.Before(h[j].results[0].Start)
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)   { *h = append(*h, x.(mergeCursor)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// WriteCSV writes one line per result in results' order, which must already
// be globally ascending by start time (the output of Merge). globalStart is
// the instant the benchmark began, captured before workers were activated;
// it is the zero point for each line's start_offset_ns column.
//
// Format (no header row, per-line): cmd_0, …, cmd_{k-1}, (dur_ns or "-",
// err or "-") per command, total_duration_ns, start_offset_ns.
func WriteCSV(w io.Writer, results []worker.PatternResult, globalStart time.Time) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for _, r := range results {
		row := make([]string, 0, len(r.Commands)*2+len(r.Pattern.Commands)+2)
		for _, cmd := range r.Pattern.Commands {
			row = append(row, cmd.Line())
		}
		for _, result := range r.Commands {
			if result.OK() {
				row = append(row, strconv.FormatInt(result.Duration.Nanoseconds(), 10), "-")
			} else {
				row = append(row, "-", result.Err.Error())
			}
		}
		row = append(row,
			strconv.FormatInt(r.Total.Nanoseconds(), 10),
			strconv.FormatInt(r.Start.Sub(globalStart).Nanoseconds(), 10),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing result row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing result CSV: %w", err)
	}
	return nil
}
