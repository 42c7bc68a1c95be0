package worker

import (
	"time"

	"github.com/jpequegn/kvbench/internal/pattern"
)

// CommandResult is the outcome of executing one command within a pattern:
// either a measured duration (response matched the prediction) or an error
// (response validation failed). Exactly one of the two is meaningful,
// mirroring the CSV's duration/error column pair.
type CommandResult struct {
	Duration time.Duration
	Err      error
}

// OK reports whether the command's response matched its prediction.
func (c CommandResult) OK() bool {
	return c.Err == nil
}

// PatternResult is one completed pattern's full timing record: per-command
// outcomes in command order, the whole-pattern wall-clock duration, and the
// instant the pattern began executing.
type PatternResult struct {
	Pattern  *pattern.ExecPattern
	Commands []CommandResult
	Total    time.Duration
	Start    time.Time
}
