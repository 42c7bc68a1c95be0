package collector

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jpequegn/kvbench/internal/pattern"
	"github.com/jpequegn/kvbench/internal/worker"
)

func result(startOffset time.Duration, base time.Time) worker.PatternResult {
	return worker.PatternResult{
		Pattern: &pattern.ExecPattern{
			Commands:    []pattern.Command{{Kind: pattern.Get, Key: "k"}},
			Predictions: []string{"not found\n"},
		},
		Commands: []worker.CommandResult{{Duration: time.Millisecond}},
		Total:    time.Millisecond,
		Start:    base.Add(startOffset),
	}
}

func TestMerge_OrdersAcrossWorkers(t *testing.T) {
	base := time.Now()
	perWorker := [][]worker.PatternResult{
		{result(0, base), result(30*time.Millisecond, base)},
		{result(10*time.Millisecond, base), result(20*time.Millisecond, base)},
	}

	merged := Merge(perWorker)
	if len(merged) != 4 {
		t.Fatalf("got %d results, want 4", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Start.Before(merged[i-1].Start) {
			t.Fatalf("merged results not sorted at index %d", i)
		}
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("Merge(nil) = %d results, want 0", len(got))
	}
}

func TestWriteCSV_MatchingResultHasNoErrorColumn(t *testing.T) {
	base := time.Now()
	r := result(0, base)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []worker.PatternResult{r}, base); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "GET k") {
		t.Errorf("expected command column in output, got %q", line)
	}
	if !strings.HasSuffix(strings.TrimRight(line, "\n"), ",0") {
		t.Errorf("expected start_offset_ns = 0 for the first result, got %q", line)
	}
}

func TestWriteCSV_MismatchHasErrorColumn(t *testing.T) {
	base := time.Now()
	r := worker.PatternResult{
		Pattern: &pattern.ExecPattern{
			Commands:    []pattern.Command{{Kind: pattern.Get, Key: "k"}},
			Predictions: []string{"not found\n"},
		},
		Commands: []worker.CommandResult{{Err: errors.New(`expected "not found\n", found "v\n"`)}},
		Total:    time.Millisecond,
		Start:    base,
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []worker.PatternResult{r}, base); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "not found") {
		t.Errorf("expected error message in output, got %q", buf.String())
	}
}

// TestWriteCSV_MultiCommandColumnsAreGrouped guards spec.md §6.2's literal
// column layout: all cmd_i columns first, then all (dur,err) pairs, then
// total/start — never interleaved per command.
func TestWriteCSV_MultiCommandColumnsAreGrouped(t *testing.T) {
	base := time.Now()
	r := worker.PatternResult{
		Pattern: &pattern.ExecPattern{
			Commands: []pattern.Command{
				{Kind: pattern.Set, Key: "k", Value: "v"},
				{Kind: pattern.Get, Key: "k"},
				{Kind: pattern.Get, Key: "k"},
				{Kind: pattern.Del, Key: "k"},
			},
			Predictions: []string{"not found\n", "v\n", "v\n", "v\n"},
		},
		Commands: []worker.CommandResult{
			{Duration: 1 * time.Millisecond},
			{Err: errors.New(`expected "v\n", found "bad\n"`)},
			{Duration: 3 * time.Millisecond},
			{Duration: 4 * time.Millisecond},
		},
		Total: 10 * time.Millisecond,
		Start: base,
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []worker.PatternResult{r}, base); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing written CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]

	want := []string{
		"SET k v", "GET k", "GET k", "DEL k",
		"1000000", "-",
		"-", `expected "v\n", found "bad\n"`,
		"3000000", "-",
		"4000000", "-",
		"10000000",
		"0",
	}
	if len(row) != len(want) {
		t.Fatalf("got %d columns, want %d: %v", len(row), len(want), row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %q, want %q (row: %v)", i, row[i], want[i], row)
		}
	}
}
