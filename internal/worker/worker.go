// Package worker implements the per-connection execution half of the
// benchmark pipeline: each Worker owns an inbox of patterns, opens one
// fresh TCP connection per pattern, times and validates every command
// against its precomputed prediction, and accumulates results in a local
// min-heap that it returns whole once the run ends.
package worker

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jpequegn/kvbench/internal/killswitch"
	"github.com/jpequegn/kvbench/internal/pattern"
)

// Worker executes patterns pulled from its inbox against addr until the
// kill switch trips.
type Worker struct {
	id        int
	addr      string
	inbox     <-chan *pattern.ExecPattern
	sw        *killswitch.Switch
	activator *semaphore.Weighted
}

// New constructs a Worker reading from inbox and dialing addr for every
// pattern. activator is the shared startup barrier: the orchestrator holds
// its entire weight until every worker and the rest of the pipeline is
// wired, then releases it all in one call, so Run's Acquire below unblocks
// every worker in the same instant instead of staggering them as they're
// constructed.
func New(id int, addr string, inbox <-chan *pattern.ExecPattern, sw *killswitch.Switch, activator *semaphore.Weighted) *Worker {
	return &Worker{id: id, addr: addr, inbox: inbox, sw: sw, activator: activator}
}

// Run blocks until the activator releases this worker's permit, then
// executes patterns until sw trips or the inbox closes. The permit is
// acquired and never released — each worker consumes exactly one of the
// activator's one-shot startup permits. Run returns the worker's results in
// ascending start-time order.
func (w *Worker) Run(ctx context.Context) ([]PatternResult, error) {
	if err := w.activator.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("worker %d: acquiring activator permit: %w", w.id, err)
	}

	var h resultHeap
	for {
		select {
		case <-w.sw.Done():
			return h.sorted(), nil
		default:
		}

		select {
		case <-w.sw.Done():
			return h.sorted(), nil
		case p, ok := <-w.inbox:
			if !ok {
				return h.sorted(), nil
			}
			if result, ok := w.execute(p); ok {
				h = append(h, result)
			}
		}
	}
}

// execute runs one pattern end to end: dial, issue every command, time and
// validate its response. Any I/O failure drops the whole pattern — it is
// not recorded, per the per-pattern-independence error policy — while a
// response mismatch is recorded as a per-command error and execution
// continues on the same connection.
func (w *Worker) execute(p *pattern.ExecPattern) (PatternResult, bool) {
	start := time.Now()

	conn, err := net.Dial("tcp", w.addr)
	if err != nil {
		slog.Debug("worker: connect failed, dropping pattern", "worker", w.id, "error", err)
		return PatternResult{}, false
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	results := make([]CommandResult, len(p.Commands))
	for i, cmd := range p.Commands {
		t0 := time.Now()

		if _, err := writer.WriteString(cmd.Line()); err != nil {
			slog.Debug("worker: write failed, dropping pattern", "worker", w.id, "error", err)
			return PatternResult{}, false
		}
		if err := writer.WriteByte('\n'); err != nil {
			slog.Debug("worker: write failed, dropping pattern", "worker", w.id, "error", err)
			return PatternResult{}, false
		}
		if err := writer.Flush(); err != nil {
			slog.Debug("worker: flush failed, dropping pattern", "worker", w.id, "error", err)
			return PatternResult{}, false
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			slog.Debug("worker: read failed, dropping pattern", "worker", w.id, "error", err)
			return PatternResult{}, false
		}
		dur := time.Since(t0)

		if line == p.Predictions[i] {
			results[i] = CommandResult{Duration: dur}
		} else {
			results[i] = CommandResult{Err: fmt.Errorf("expected %q, found %q", p.Predictions[i], line)}
		}
	}

	total := time.Since(start)
	closeGracefully(conn)

	return PatternResult{Pattern: p, Commands: results, Total: total, Start: start}, true
}

// closeGracefully sets a near-zero linger (stdlib only exposes whole-second
// granularity, so 0 is the closest approximation to the intended "drop
// without lingering a full timeout") and half-closes the write side before
// the deferred Close, so the server sees a clean EOF rather than a reset
// mid-read on a well-behaved exchange.
func closeGracefully(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	_ = tcpConn.SetLinger(0)
	_ = tcpConn.CloseWrite()
}
