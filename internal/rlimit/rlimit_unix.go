//go:build unix

// Package rlimit raises the process's open-file-descriptor limit and
// derives the benchmark's worker count from it: file descriptors are the
// scarce resource when every in-flight pattern holds its own TCP
// connection, so worker count is not a tuning knob but a consequence of how
// many descriptors the OS will hand out.
package rlimit

import (
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sys/unix"
)

// Raise sets RLIMIT_NOFILE's soft limit to its hard cap and returns the new
// limit. It is called once at process startup, before any worker is
// constructed.
func Raise() (uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, fmt.Errorf("getting RLIMIT_NOFILE: %w", err)
	}

	target := rlim.Max
	if rlim.Cur == target {
		return target, nil
	}

	rlim.Cur = target
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return rlim.Cur, fmt.Errorf("raising RLIMIT_NOFILE to %d: %w", target, err)
	}

	slog.Info("raised RLIMIT_NOFILE", "limit", target)
	return target, nil
}

// WorkerCount derives the benchmark's worker count from the (already
// raised) file descriptor limit: min(available_parallelism * 4, fdLimit).
func WorkerCount(fdLimit uint64) int {
	n := uint64(runtime.GOMAXPROCS(0)) * 4
	if fdLimit < n {
		n = fdLimit
	}
	if n == 0 {
		n = 1
	}
	return int(n)
}
