package dispatcher

import "github.com/jpequegn/kvbench/internal/pattern"

// RunFinite dispatches exactly the patterns in batch, round-robin, blocking
// on a full inbox rather than skipping to the next one. It is used by the
// one-shot "test" verb, which feeds a small, known set of patterns and needs
// every one of them delivered and accounted for — unlike Run, it returns as
// soon as the batch is exhausted and does not watch a kill switch.
func RunFinite(batch []*pattern.ExecPattern, inboxes []chan<- *pattern.ExecPattern) {
	if len(inboxes) == 0 {
		return
	}
	for i, p := range batch {
		inboxes[i%len(inboxes)] <- p
	}
}
