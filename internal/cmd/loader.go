package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jpequegn/kvbench/internal/aggregator"
)

// LoadAggregatedSuite loads an aggregated result suite from a file.
//
// A .csv file is treated as a raw kvbench result CSV (the output of
// "kvbench benchmark", whose columns are grouped cmd_0..cmd_{k-1} then
// (dur,err) pairs then total/start, per spec.md §6.2) and is grouped into
// per-template statistics with aggregator.Aggregate. A .json file is
// treated as an already-aggregated suite, the format
// aggregator.Export(aggregator.FormatJSON) produces, and is decoded
// directly — this lets "kvbench compare" be pointed at either a fresh
// run's result CSV or a previously exported summary.
func LoadAggregatedSuite(filePath string) (*aggregator.AggregatedSuite, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch {
	case strings.HasSuffix(filePath, ".json"):
		return loadAggregatedFromJSON(file)
	case strings.HasSuffix(filePath, ".csv"):
		return loadAggregatedFromResultCSV(file)
	}

	return nil, fmt.Errorf("unsupported file format: %s (must be .json or .csv)", filePath)
}

// loadAggregatedFromJSON decodes a previously exported aggregator.AggregatedSuite.
func loadAggregatedFromJSON(r io.Reader) (*aggregator.AggregatedSuite, error) {
	var suite aggregator.AggregatedSuite
	if err := json.NewDecoder(r).Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if len(suite.Results) == 0 {
		return nil, fmt.Errorf("no templates found in JSON")
	}

	return &suite, nil
}

// loadAggregatedFromResultCSV parses a raw kvbench result CSV
// (collector.WriteCSV's header-less, per-pattern-row format) into samples
// grouped by template, then aggregates them.
//
// Each row holds, in order: all k command-line columns (cmd_0..cmd_{k-1}),
// then k (duration-in-nanoseconds-or-"-", error-or-"-") pairs — one per
// command, in the same order — followed by two trailing columns,
// total_duration_ns and start_offset_ns. The template is derived from the
// leading verb of each of the k command-line columns.
func loadAggregatedFromResultCSV(r io.Reader) (*aggregator.AggregatedSuite, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	set := &aggregator.ResultSet{Timestamp: time.Now()}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read result row: %w", err)
		}

		if len(record) < 2 || (len(record)-2)%3 != 0 {
			return nil, fmt.Errorf("malformed result row: %d columns", len(record))
		}
		numCommands := (len(record) - 2) / 3

		verbs := make([]string, 0, numCommands)
		for i := 0; i < numCommands; i++ {
			line := record[i]
			verb, _, _ := strings.Cut(line, " ")
			verbs = append(verbs, verb)
		}
		template := strings.Join(verbs, "-")

		totalNs, err := strconv.ParseInt(record[len(record)-2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid total_duration_ns: %w", err)
		}

		set.Samples = append(set.Samples, aggregator.Sample{
			Template: template,
			Duration: time.Duration(totalNs),
		})
	}

	if len(set.Samples) == 0 {
		return nil, fmt.Errorf("no valid results found in CSV")
	}

	return aggregator.NewAggregator().Aggregate(set)
}
