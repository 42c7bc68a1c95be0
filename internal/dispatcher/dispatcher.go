// Package dispatcher fans patterns out from the decoder to a fixed set of
// worker inboxes in strict round-robin order. It never blocks on a full
// inbox: a worker that cannot keep up is skipped for this cycle and
// retried on the next one, so one slow connection never stalls every other
// worker behind it.
package dispatcher

import (
	"log/slog"

	"github.com/jpequegn/kvbench/internal/killswitch"
	"github.com/jpequegn/kvbench/internal/pattern"
)

// Source is the pull side of the decoder that the dispatcher consumes from.
type Source interface {
	Next() (*pattern.ExecPattern, error)
}

// Run holds at most one pattern at a time and walks inboxes in cyclic
// order, attempting a non-blocking send at each one. A successful send
// pulls the next pattern from src and advances to the following inbox; a
// full inbox is skipped without dropping the pattern in hand, which is
// retried against the next inbox on the next step. Run returns once sw
// trips or src reports a fatal error, in which case it trips sw itself.
func Run(src Source, inboxes []chan<- *pattern.ExecPattern, sw *killswitch.Switch) {
	if len(inboxes) == 0 {
		return
	}

	next := 0
	var delivered int
	p, err := src.Next()
	if err != nil {
		slog.Error("dispatcher: fatal corpus read failure, tripping kill switch", "error", err)
		sw.Trip()
		return
	}

	for {
		select {
		case <-sw.Done():
			slog.Info("dispatcher stopping", "delivered", delivered)
			return
		default:
		}

		inbox := inboxes[next]
		next = (next + 1) % len(inboxes)

		select {
		case inbox <- p:
			delivered++
			p, err = src.Next()
			if err != nil {
				slog.Error("dispatcher: fatal corpus read failure, tripping kill switch", "error", err)
				sw.Trip()
				return
			}
		case <-sw.Done():
			return
		default:
			// Inbox full: keep p in hand, retry against the next inbox.
		}
	}
}
