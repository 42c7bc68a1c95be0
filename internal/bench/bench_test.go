package bench

import (
	"bufio"
	"context"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jpequegn/kvbench/internal/corpus"
	"github.com/jpequegn/kvbench/internal/pattern"
)

func alwaysNotFoundServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					if _, err := r.ReadString('\n'); err != nil {
						return
					}
					if _, err := conn.Write([]byte("not found\n")); err != nil {
						return
					}
				}
			}()
		}
	}()
	return ln.Addr().String()
}

func writeCorpus(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating corpus: %v", err)
	}
	defer f.Close()

	zw, err := corpus.NewStreamWriter(f, 0)
	if err != nil {
		t.Fatalf("creating zstd writer: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	tpl, err := pattern.ParsePattern("GET")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	for i := 0; i < 5; i++ {
		p := pattern.New(rng, tpl, 6, 6)
		if err := corpus.WriteRecord(zw, p); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zstd writer: %v", err)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	addr := alwaysNotFoundServer(t)

	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.zst")
	resultPath := filepath.Join(dir, "results.csv")
	writeCorpus(t, corpusPath)

	opts := Options{
		Duration:      200 * time.Millisecond,
		CorpusPath:    corpusPath,
		ResultPath:    resultPath,
		Host:          addr,
		Workers:       2,
		InboxCapacity: 5,
	}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatalf("reading result file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("expected at least one result line")
	}
	for _, line := range lines {
		if !strings.Contains(line, "GET ") {
			t.Errorf("result line missing GET command: %q", line)
		}
	}
}
