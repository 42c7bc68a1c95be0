package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpequegn/kvbench/internal/aggregator"
	"github.com/jpequegn/kvbench/internal/comparator"
	"github.com/jpequegn/kvbench/internal/reporter"
)

func TestCompare_Integration_Success(t *testing.T) {
	tmpDir := t.TempDir()

	baselineFile := filepath.Join(tmpDir, "baseline.csv")
	baselineContent := "SET k1 v1,1000,-,200,0\n"
	if err := os.WriteFile(baselineFile, []byte(baselineContent), 0644); err != nil {
		t.Fatalf("failed to write baseline file: %v", err)
	}

	currentFile := filepath.Join(tmpDir, "current.csv")
	currentContent := "SET k1 v1,950,-,190,0\n"
	if err := os.WriteFile(currentFile, []byte(currentContent), 0644); err != nil {
		t.Fatalf("failed to write current file: %v", err)
	}

	baseline, err := LoadAggregatedSuite(baselineFile)
	if err != nil {
		t.Fatalf("failed to load baseline: %v", err)
	}

	current, err := LoadAggregatedSuite(currentFile)
	if err != nil {
		t.Fatalf("failed to load current: %v", err)
	}

	comp := comparator.NewBasicComparator()
	result := comp.Compare(baseline, current)

	if result == nil {
		t.Fatal("comparison returned nil")
	}

	if result.Summary.TotalComparisons != 1 {
		t.Errorf("expected 1 comparison, got %d", result.Summary.TotalComparisons)
	}

	if result.Summary.Improvements != 1 {
		t.Errorf("expected 1 improvement, got %d", result.Summary.Improvements)
	}
}

func TestCompare_Integration_WithRegression(t *testing.T) {
	tmpDir := t.TempDir()

	baselineFile := filepath.Join(tmpDir, "baseline.csv")
	baselineContent := "GET k1,1000,-,1000,0\n"
	if err := os.WriteFile(baselineFile, []byte(baselineContent), 0644); err != nil {
		t.Fatalf("failed to write baseline file: %v", err)
	}

	currentFile := filepath.Join(tmpDir, "current.csv")
	currentContent := "GET k1,1100,-,1100,0\n" // 10% slower
	if err := os.WriteFile(currentFile, []byte(currentContent), 0644); err != nil {
		t.Fatalf("failed to write current file: %v", err)
	}

	baseline, err := LoadAggregatedSuite(baselineFile)
	if err != nil {
		t.Fatalf("failed to load baseline: %v", err)
	}

	current, err := LoadAggregatedSuite(currentFile)
	if err != nil {
		t.Fatalf("failed to load current: %v", err)
	}

	comp := comparator.NewBasicComparator()
	comp.RegressionThreshold = 1.05
	result := comp.Compare(baseline, current)

	if result.Summary.Regressions != 1 {
		t.Errorf("expected 1 regression, got %d", result.Summary.Regressions)
	}
}

func TestCompare_ReportFormats(t *testing.T) {
	baseline := &aggregator.AggregatedSuite{
		Results: []*aggregator.AggregatedResult{
			{Template: "SET-GET", Mean: 1000 * time.Nanosecond, StdDev: 100 * time.Nanosecond, Count: 100},
		},
	}

	current := &aggregator.AggregatedSuite{
		Results: []*aggregator.AggregatedResult{
			{Template: "SET-GET", Mean: 1100 * time.Nanosecond, StdDev: 90 * time.Nanosecond, Count: 100},
		},
	}

	comp := comparator.NewBasicComparator()
	result := comp.Compare(baseline, current)

	compReporter := reporter.NewBasicComparisonReporter()

	markdown, err := compReporter.GenerateMarkdown(result)
	if err != nil {
		t.Fatalf("failed to generate markdown: %v", err)
	}
	if markdown == "" {
		t.Fatal("generated empty markdown report")
	}

	html, err := compReporter.GenerateHTML(result)
	if err != nil {
		t.Fatalf("failed to generate HTML: %v", err)
	}
	if html == "" {
		t.Fatal("generated empty HTML report")
	}

	jsonReport, err := compReporter.GenerateJSON(result)
	if err != nil {
		t.Fatalf("failed to generate JSON: %v", err)
	}
	if jsonReport == "" {
		t.Fatal("generated empty JSON report")
	}
}

func TestCompare_CSVInput(t *testing.T) {
	tmpDir := t.TempDir()

	baselineFile := filepath.Join(tmpDir, "baseline.csv")
	baselineContent := "SET k1 v1,1000,-,1000,0\nGET k2,500,-,500,100\n"
	if err := os.WriteFile(baselineFile, []byte(baselineContent), 0644); err != nil {
		t.Fatalf("failed to write baseline file: %v", err)
	}

	currentFile := filepath.Join(tmpDir, "current.csv")
	currentContent := "SET k1 v1,950,-,950,0\nGET k2,500,-,500,100\n"
	if err := os.WriteFile(currentFile, []byte(currentContent), 0644); err != nil {
		t.Fatalf("failed to write current file: %v", err)
	}

	baseline, err := LoadAggregatedSuite(baselineFile)
	if err != nil {
		t.Fatalf("failed to load baseline CSV: %v", err)
	}

	current, err := LoadAggregatedSuite(currentFile)
	if err != nil {
		t.Fatalf("failed to load current CSV: %v", err)
	}

	if len(baseline.Results) != 2 {
		t.Errorf("expected 2 baseline templates, got %d", len(baseline.Results))
	}

	if len(current.Results) != 2 {
		t.Errorf("expected 2 current templates, got %d", len(current.Results))
	}
}

func TestCompare_JSONtoCSV_Consistency(t *testing.T) {
	tmpDir := t.TempDir()

	// A result CSV containing a single SET sample...
	csvFile := filepath.Join(tmpDir, "data.csv")
	csvContent := "SET k1 v1,1000,-,1000,0\n"
	if err := os.WriteFile(csvFile, []byte(csvContent), 0644); err != nil {
		t.Fatalf("failed to write CSV file: %v", err)
	}

	// ...should aggregate to the same mean as loading the equivalent
	// already-aggregated JSON export.
	jsonFile := filepath.Join(tmpDir, "data.json")
	jsonContent := `{"results": [{"template": "SET", "mean": 1000, "median": 1000, "min": 1000, "max": 1000, "stddev": 0, "count": 1}]}`
	if err := os.WriteFile(jsonFile, []byte(jsonContent), 0644); err != nil {
		t.Fatalf("failed to write JSON file: %v", err)
	}

	csvSuite, err := LoadAggregatedSuite(csvFile)
	if err != nil {
		t.Fatalf("failed to load CSV: %v", err)
	}

	jsonSuite, err := LoadAggregatedSuite(jsonFile)
	if err != nil {
		t.Fatalf("failed to load JSON: %v", err)
	}

	if len(csvSuite.Results) != len(jsonSuite.Results) {
		t.Fatalf("loaded different number of results: CSV=%d, JSON=%d",
			len(csvSuite.Results), len(jsonSuite.Results))
	}

	if csvSuite.Results[0].Mean != jsonSuite.Results[0].Mean {
		t.Errorf("mean mismatch: CSV=%v, JSON=%v", csvSuite.Results[0].Mean, jsonSuite.Results[0].Mean)
	}
}
