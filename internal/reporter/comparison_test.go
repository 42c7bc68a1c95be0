package reporter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jpequegn/kvbench/internal/aggregator"
	"github.com/jpequegn/kvbench/internal/comparator"
)

func createTestComparisonResult() *comparator.ComparisonResult {
	result := &comparator.ComparisonResult{
		Templates: []*comparator.TemplateComparison{
			{
				Template:            "SET-GET",
				Baseline:            &aggregator.AggregatedResult{Mean: 1000 * time.Nanosecond},
				Current:             &aggregator.AggregatedResult{Mean: 950 * time.Nanosecond},
				TimeDelta:           -5.0,
				IsRegression:        false,
				IsSignificant:       true,
				ConfidenceLevel:     0.95,
				TTestPValue:         0.02,
				EffectSize:          0.8,
				RegressionThreshold: 1.05,
			},
			{
				Template:            "GET",
				Baseline:            &aggregator.AggregatedResult{Mean: 500 * time.Nanosecond},
				Current:             &aggregator.AggregatedResult{Mean: 600 * time.Nanosecond},
				TimeDelta:           20.0,
				IsRegression:        true,
				IsSignificant:       true,
				ConfidenceLevel:     0.95,
				TTestPValue:         0.01,
				EffectSize:          1.2,
				RegressionThreshold: 1.05,
			},
		},
		Summary: comparator.ComparisonSummary{
			TotalComparisons:   2,
			Regressions:        1,
			Improvements:       1,
			AverageDelta:       7.5,
			MaxDelta:           20.0,
			MinDelta:           -5.0,
			SignificantChanges: 2,
		},
		Regressions:  []string{"GET"},
		Improvements: []string{"SET-GET"},
		Statistics: comparator.ComparisonStats{
			ConfidenceLevel:     0.95,
			SignificanceLevel:   0.05,
			RegressionThreshold: 1.05,
		},
	}
	return result
}

func TestNewBasicComparisonReporter(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	if reporter == nil {
		t.Error("NewBasicComparisonReporter() returned nil")
	}
}

func TestGenerateMarkdown(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	result := createTestComparisonResult()

	markdown, err := reporter.GenerateMarkdown(result)
	if err != nil {
		t.Fatalf("GenerateMarkdown() returned error: %v", err)
	}

	if markdown == "" {
		t.Error("GenerateMarkdown() returned empty string")
	}

	// Check for key sections
	if !strings.Contains(markdown, "# Performance Comparison Report") {
		t.Error("Markdown missing header")
	}

	if !strings.Contains(markdown, "## Summary") {
		t.Error("Markdown missing Summary section")
	}

	if !strings.Contains(markdown, "Total Comparisons") {
		t.Error("Markdown missing Total Comparisons")
	}

	hasRegressions := strings.Contains(markdown, "Regressions")
	hasImprovements := strings.Contains(markdown, "Improvements")

	if !hasRegressions {
		t.Error("Markdown should contain information about regressions")
	}

	if !hasImprovements {
		t.Error("Markdown should contain information about improvements")
	}

	if !strings.Contains(markdown, "## Detailed Results") {
		t.Error("Markdown missing Detailed Results section")
	}

	// Check for template names
	if !strings.Contains(markdown, "SET-GET") {
		t.Error("Markdown missing 'SET-GET' template")
	}

	if !strings.Contains(markdown, "GET") {
		t.Error("Markdown missing 'GET' template")
	}
}

func TestGenerateMarkdown_EmptyResult(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	result := &comparator.ComparisonResult{
		Templates: make([]*comparator.TemplateComparison, 0),
	}

	markdown, err := reporter.GenerateMarkdown(result)
	if err != nil {
		t.Fatalf("GenerateMarkdown(empty) returned error: %v", err)
	}

	if !strings.Contains(markdown, "No templates") {
		t.Error("Markdown should mention no templates")
	}
}

func TestGenerateMarkdown_NilResult(t *testing.T) {
	reporter := NewBasicComparisonReporter()

	markdown, err := reporter.GenerateMarkdown(nil)
	if err != nil {
		t.Fatalf("GenerateMarkdown(nil) returned error: %v", err)
	}

	if !strings.Contains(markdown, "No templates") {
		t.Error("Markdown should mention no templates for nil result")
	}
}

func TestGenerateHTML(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	result := createTestComparisonResult()

	html, err := reporter.GenerateHTML(result)
	if err != nil {
		t.Fatalf("GenerateHTML() returned error: %v", err)
	}

	if html == "" {
		t.Error("GenerateHTML() returned empty string")
	}

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("HTML missing DOCTYPE")
	}

	if !strings.Contains(html, "<title>") {
		t.Error("HTML missing title tag")
	}

	if !strings.Contains(html, "<table>") {
		t.Error("HTML missing table")
	}

	if !strings.Contains(html, "<thead>") {
		t.Error("HTML missing table header")
	}

	if !strings.Contains(html, "Template") {
		t.Error("HTML missing Template column")
	}

	if !strings.Contains(html, "SET-GET") {
		t.Error("HTML missing 'SET-GET' template")
	}

	if !strings.Contains(html, "GET") {
		t.Error("HTML missing 'GET' template")
	}

	if !strings.Contains(html, "background-color") {
		t.Error("HTML missing CSS styling")
	}
}

func TestGenerateHTML_EmptyResult(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	result := &comparator.ComparisonResult{
		Templates: make([]*comparator.TemplateComparison, 0),
	}

	html, err := reporter.GenerateHTML(result)
	if err != nil {
		t.Fatalf("GenerateHTML(empty) returned error: %v", err)
	}

	if !strings.Contains(html, "No templates") {
		t.Error("HTML should mention no templates")
	}
}

func TestGenerateJSON(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	result := createTestComparisonResult()

	jsonStr, err := reporter.GenerateJSON(result)
	if err != nil {
		t.Fatalf("GenerateJSON() returned error: %v", err)
	}

	if jsonStr == "" {
		t.Error("GenerateJSON() returned empty string")
	}

	var data map[string]interface{}
	err = json.Unmarshal([]byte(jsonStr), &data)
	if err != nil {
		t.Fatalf("GenerateJSON() returned invalid JSON: %v", err)
	}

	if _, ok := data["summary"]; !ok {
		t.Error("JSON missing summary field")
	}

	if _, ok := data["templates"]; !ok {
		t.Error("JSON missing templates field")
	}

	if _, ok := data["statistics"]; !ok {
		t.Error("JSON missing statistics field")
	}

	summary := data["summary"].(map[string]interface{})
	if _, ok := summary["total_comparisons"]; !ok {
		t.Error("JSON summary missing total_comparisons")
	}

	if _, ok := summary["regressions"]; !ok {
		t.Error("JSON summary missing regressions")
	}

	if _, ok := summary["improvements"]; !ok {
		t.Error("JSON summary missing improvements")
	}
}

func TestGenerateJSON_EmptyResult(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	result := &comparator.ComparisonResult{
		Templates: make([]*comparator.TemplateComparison, 0),
	}

	jsonStr, err := reporter.GenerateJSON(result)
	if err != nil {
		t.Fatalf("GenerateJSON(empty) returned error: %v", err)
	}

	var data map[string]interface{}
	err = json.Unmarshal([]byte(jsonStr), &data)
	if err != nil {
		t.Fatalf("GenerateJSON(empty) returned invalid JSON: %v", err)
	}
}

func TestGenerateJSON_NilResult(t *testing.T) {
	reporter := NewBasicComparisonReporter()

	jsonStr, err := reporter.GenerateJSON(nil)
	if err != nil {
		t.Fatalf("GenerateJSON(nil) returned error: %v", err)
	}

	if jsonStr != "{}" {
		t.Errorf("GenerateJSON(nil) = %q, want {}", jsonStr)
	}
}

func TestGenerateMarkdownTable(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	comparisons := []*comparator.TemplateComparison{
		{
			Template:  "SET-GET-DEL",
			Baseline:  &aggregator.AggregatedResult{Mean: 1000 * time.Nanosecond},
			Current:   &aggregator.AggregatedResult{Mean: 950 * time.Nanosecond},
			TimeDelta: -5.0,
		},
	}

	table := reporter.generateMarkdownTable(comparisons)

	if !strings.Contains(table, "Template") {
		t.Error("Table missing header")
	}

	if !strings.Contains(table, "SET-GET-DEL") {
		t.Error("Table missing template name")
	}
}

func TestMarshalTemplateComparisons(t *testing.T) {
	reporter := NewBasicComparisonReporter()
	comparisons := []*comparator.TemplateComparison{
		{
			Template:            "SET-GET",
			Baseline:            &aggregator.AggregatedResult{Mean: 1000 * time.Nanosecond},
			Current:             &aggregator.AggregatedResult{Mean: 1100 * time.Nanosecond},
			TimeDelta:            10.0,
			IsRegression:         true,
			IsSignificant:        true,
			TTestPValue:          0.01,
			EffectSize:           0.5,
			RegressionThreshold:  1.05,
		},
	}

	marshaled := reporter.marshalTemplateComparisons(comparisons)

	if len(marshaled) != 1 {
		t.Errorf("len(marshaled) = %d, want 1", len(marshaled))
	}

	comp := marshaled[0]
	if comp["template"] != "SET-GET" {
		t.Errorf("template = %v, want 'SET-GET'", comp["template"])
	}

	if comp["is_regression"] != true {
		t.Errorf("is_regression = %v, want true", comp["is_regression"])
	}
}
