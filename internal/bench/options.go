package bench

import "time"

// Options configures one benchmark run.
type Options struct {
	// Duration is the wall-clock length of the run.
	Duration time.Duration
	// CorpusPath is the zstd-compressed corpus file to read patterns from.
	CorpusPath string
	// ResultPath is where the result CSV is written.
	ResultPath string
	// Host is the target server's "host:port" address.
	Host string
	// Workers overrides the RLIMIT_NOFILE-derived worker count when > 0.
	Workers int
	// InboxCapacity is the bound on each worker's inbox channel. Small by
	// design — a large buffer would defeat the timing fidelity of the
	// benchmark by letting patterns queue invisibly.
	InboxCapacity int
}

// DefaultInboxCapacity is used when Options.InboxCapacity is unset.
const DefaultInboxCapacity = 5
