package dispatcher

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jpequegn/kvbench/internal/killswitch"
	"github.com/jpequegn/kvbench/internal/pattern"
)

type sliceSource struct {
	mu      sync.Mutex
	items   []*pattern.ExecPattern
	i       int
	onEmpty error
}

func (s *sliceSource) Next() (*pattern.ExecPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.i >= len(s.items) {
		if s.onEmpty != nil {
			return nil, s.onEmpty
		}
		s.i = 0
	}
	p := s.items[s.i]
	s.i++
	return p, nil
}

func testPattern() *pattern.ExecPattern {
	return &pattern.ExecPattern{
		Commands:    []pattern.Command{{Kind: pattern.Get, Key: "k"}},
		Predictions: []string{"not found\n"},
	}
}

func TestRun_RoundRobinsAcrossInboxes(t *testing.T) {
	src := &sliceSource{items: []*pattern.ExecPattern{testPattern(), testPattern(), testPattern(), testPattern()}}
	sw := killswitch.New()

	raw := []chan *pattern.ExecPattern{make(chan *pattern.ExecPattern, 4), make(chan *pattern.ExecPattern, 4)}
	inboxes := []chan<- *pattern.ExecPattern{raw[0], raw[1]}

	done := make(chan struct{})
	go func() {
		Run(src, inboxes, sw)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	sw.Trip()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after kill switch trip")
	}

	if len(raw[0]) == 0 && len(raw[1]) == 0 {
		t.Fatal("no patterns were delivered to any inbox")
	}
}

func TestRun_TripsKillSwitchOnSourceError(t *testing.T) {
	src := &sliceSource{items: nil, onEmpty: errors.New("boom")}
	sw := killswitch.New()
	inboxes := []chan<- *pattern.ExecPattern{make(chan *pattern.ExecPattern, 1)}

	done := make(chan struct{})
	go func() {
		Run(src, inboxes, sw)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after source error")
	}
	if !sw.HasFired() {
		t.Fatal("kill switch was not tripped on source error")
	}
}

func TestRunFinite_DeliversEveryItem(t *testing.T) {
	batch := []*pattern.ExecPattern{testPattern(), testPattern(), testPattern()}
	raw := make(chan *pattern.ExecPattern, len(batch))
	inboxes := []chan<- *pattern.ExecPattern{raw}

	RunFinite(batch, inboxes)
	close(raw)

	count := 0
	for range raw {
		count++
	}
	if count != len(batch) {
		t.Fatalf("delivered %d items, want %d", count, len(batch))
	}
}
