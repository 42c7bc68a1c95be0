// Package bench wires the decoder, dispatcher, worker fleet, deadline
// timer, and collector into the concurrent benchmark pipeline and exposes
// it as a single Run call.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sourcegraph/conc"
	"golang.org/x/sync/semaphore"

	"github.com/jpequegn/kvbench/internal/collector"
	"github.com/jpequegn/kvbench/internal/deadline"
	"github.com/jpequegn/kvbench/internal/decoder"
	"github.com/jpequegn/kvbench/internal/dispatcher"
	"github.com/jpequegn/kvbench/internal/killswitch"
	"github.com/jpequegn/kvbench/internal/pattern"
	"github.com/jpequegn/kvbench/internal/rlimit"
	"github.com/jpequegn/kvbench/internal/worker"
)

// Run executes one complete benchmark: it raises the file descriptor
// limit, derives the worker count, opens the corpus, runs the pipeline for
// opts.Duration, and writes the merged, start-time-ordered result CSV to
// opts.ResultPath.
func Run(ctx context.Context, opts Options) error {
	globalStart := time.Now()

	fdLimit, err := rlimit.Raise()
	if err != nil {
		slog.Warn("could not raise RLIMIT_NOFILE, continuing with current limit", "error", err)
	}

	n := opts.Workers
	if n <= 0 {
		n = rlimit.WorkerCount(fdLimit)
	}
	slog.Info("benchmark starting", "workers", n, "duration", opts.Duration, "host", opts.Host)

	inboxCap := opts.InboxCapacity
	if inboxCap <= 0 {
		inboxCap = DefaultInboxCapacity
	}

	dec, err := decoder.Open(opts.CorpusPath)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer dec.Close()

	sw := killswitch.New()

	// The activator barrier: initialized to zero available permits by
	// acquiring the semaphore's entire weight up front, then released en
	// masse once the pipeline is fully wired, so every worker's
	// Acquire(ctx, 1) in Worker.Run unblocks in the same instant. Sized at
	// N*10, well beyond the N permits workers will ever claim (each
	// acquires exactly one and never gives it back) — slack against the
	// barrier rather than a tight N-permit budget.
	const activatorSlack = 10
	activatorCapacity := int64(n) * activatorSlack
	activator := semaphore.NewWeighted(activatorCapacity)
	if err := activator.Acquire(ctx, activatorCapacity); err != nil {
		return fmt.Errorf("acquiring activator barrier: %w", err)
	}

	inboxes := make([]chan *pattern.ExecPattern, n)
	sendInboxes := make([]chan<- *pattern.ExecPattern, n)
	for i := range inboxes {
		inboxes[i] = make(chan *pattern.ExecPattern, inboxCap)
		sendInboxes[i] = inboxes[i]
	}

	workers := make([]*worker.Worker, n)
	for i := range workers {
		workers[i] = worker.New(i, opts.Host, inboxes[i], sw, activator)
	}

	results := make([][]worker.PatternResult, n)

	var wg conc.WaitGroup
	for i, w := range workers {
		i, w := i, w
		wg.Go(func() {
			res, err := w.Run(ctx)
			if err != nil {
				slog.Error("worker exited with error", "worker", i, "error", err)
				return
			}
			results[i] = res
		})
	}

	wg.Go(func() {
		dispatcher.Run(dec, sendInboxes, sw)
		for _, inbox := range inboxes {
			close(inbox)
		}
	})

	wg.Go(func() {
		deadline.Run(ctx, opts.Duration, sw)
	})

	activator.Release(activatorCapacity)

	wg.Wait()

	merged := collector.Merge(results)
	slog.Info("benchmark complete, writing results", "patterns", len(merged))

	out, err := os.Create(opts.ResultPath)
	if err != nil {
		return fmt.Errorf("creating result file: %w", err)
	}
	defer out.Close()

	if err := collector.WriteCSV(out, merged, globalStart); err != nil {
		return fmt.Errorf("writing result CSV: %w", err)
	}
	return nil
}
