// Command kvbench drives a line-oriented ASCII key/value server with a
// large precomputed workload, validates every response against a
// prediction computed at corpus-generation time, and reports per-pattern
// latencies.
package main

import (
	"os"

	"github.com/jpequegn/kvbench/internal/cmd"
)

func main() {
	// cobra already prints RunE's error to stderr before returning it, so
	// main only needs to translate a non-nil error into the exit code
	// spec.md §6.3 requires.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
