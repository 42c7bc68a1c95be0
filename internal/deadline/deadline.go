// Package deadline implements the benchmark run's wall-clock timer: a single
// goroutine that sleeps in short ticks until the configured duration has
// elapsed, then trips the kill switch once and returns.
package deadline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jpequegn/kvbench/internal/killswitch"
)

// tick is the sleep granularity between elapsed-time checks. Short enough
// that a benchmark with a sub-second duration still stops close to on time,
// long enough that the timer goroutine spends its life asleep rather than
// spinning.
const tick = 500 * time.Millisecond

// Run blocks until either duration has elapsed or ctx is cancelled, then
// trips sw. It never trips sw more than once (Switch.Trip is itself
// idempotent) and returns promptly if sw has already fired by some other
// means, such as the dispatcher hitting a fatal corpus read error.
func Run(ctx context.Context, duration time.Duration, sw *killswitch.Switch) {
	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.Done():
			return
		case now := <-ticker.C:
			if !now.Before(deadline) {
				slog.Info("deadline reached, tripping kill switch", "duration", duration)
				sw.Trip()
				return
			}
		}
	}
}
