package aggregator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultAggregator implements the Aggregator interface.
type DefaultAggregator struct{}

// NewAggregator creates a new aggregator instance.
func NewAggregator() *DefaultAggregator {
	return &DefaultAggregator{}
}

// Aggregate groups set's samples by template and computes mean, median,
// min, max, and standard deviation of total pattern duration within each
// group.
func (a *DefaultAggregator) Aggregate(set *ResultSet) (*AggregatedSuite, error) {
	if set == nil {
		return nil, fmt.Errorf("result set cannot be nil")
	}
	if len(set.Samples) == 0 {
		return nil, fmt.Errorf("result set has no samples")
	}

	byTemplate := make(map[string][]time.Duration)
	order := make([]string, 0)
	for _, s := range set.Samples {
		if _, seen := byTemplate[s.Template]; !seen {
			order = append(order, s.Template)
		}
		byTemplate[s.Template] = append(byTemplate[s.Template], s.Duration)
	}

	aggregated := &AggregatedSuite{
		Results:   make([]*AggregatedResult, 0, len(order)),
		Metadata:  set.Metadata,
		Timestamp: set.Timestamp,
	}

	for _, tpl := range order {
		durations := byTemplate[tpl]
		mean, median, stdDev := CalculateStatistics(durations)

		min, max := durations[0], durations[0]
		for _, d := range durations {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}

		aggregated.Results = append(aggregated.Results, &AggregatedResult{
			Template:  tpl,
			Mean:      mean,
			Median:    median,
			Min:       min,
			Max:       max,
			StdDev:    stdDev,
			Count:     int64(len(durations)),
			Timestamp: set.Timestamp,
		})
	}

	aggregated.Stats = a.calculateSuiteStats(aggregated.Results)
	return aggregated, nil
}

// calculateSuiteStats calculates overall statistics for the suite.
func (a *DefaultAggregator) calculateSuiteStats(results []*AggregatedResult) *SuiteStats {
	if len(results) == 0 {
		return &SuiteStats{}
	}

	stats := &SuiteStats{
		TotalTemplates: len(results),
	}

	fastest := results[0]
	slowest := results[0]

	for _, r := range results {
		stats.TotalDuration += r.Mean

		if r.Mean < fastest.Mean {
			fastest = r
		}
		if r.Mean > slowest.Mean {
			slowest = r
		}
	}

	stats.FastestTemplate = fastest.Template
	stats.FastestTime = fastest.Mean
	stats.SlowestTemplate = slowest.Template
	stats.SlowestTime = slowest.Mean

	return stats
}

// Compare compares two aggregated suites template by template.
func (a *DefaultAggregator) Compare(baseline, current *AggregatedSuite, threshold float64) (*ComparisonSuite, error) {
	if baseline == nil || current == nil {
		return nil, fmt.Errorf("baseline and current suites cannot be nil")
	}

	baselineMap := make(map[string]*AggregatedResult)
	for _, r := range baseline.Results {
		baselineMap[r.Template] = r
	}

	comparison := &ComparisonSuite{
		Comparisons: make([]*Comparison, 0),
		Threshold:   threshold,
		Timestamp:   time.Now(),
		Metadata:    make(map[string]string),
	}

	for _, currentResult := range current.Results {
		baselineResult, exists := baselineMap[currentResult.Template]
		if !exists {
			continue
		}

		comp := a.compareResults(baselineResult, currentResult, threshold)
		comparison.Comparisons = append(comparison.Comparisons, comp)

		switch {
		case comp.Regression:
			comparison.RegressionCount++
		case comp.Improvement:
			comparison.ImprovementCount++
		default:
			comparison.UnchangedCount++
		}
	}

	return comparison, nil
}

// compareResults compares two aggregated results for the same template.
func (a *DefaultAggregator) compareResults(baseline, current *AggregatedResult, threshold float64) *Comparison {
	delta := current.Mean - baseline.Mean
	deltaPercent := 0.0

	if baseline.Mean > 0 {
		deltaPercent = (float64(delta) / float64(baseline.Mean)) * 100.0
	}

	comp := &Comparison{
		Template:     current.Template,
		Baseline:     baseline,
		Current:      current,
		Delta:        delta,
		DeltaPercent: deltaPercent,
	}

	// Positive delta means slower (regression), negative means faster
	// (improvement).
	absPercent := math.Abs(deltaPercent)
	if absPercent > threshold {
		if delta > 0 {
			comp.Regression = true
		} else {
			comp.Improvement = true
		}
	}

	return comp
}

// Export exports aggregated results to the specified format.
func (a *DefaultAggregator) Export(suite *AggregatedSuite, format ExportFormat) ([]byte, error) {
	if suite == nil {
		return nil, fmt.Errorf("suite cannot be nil")
	}

	switch format {
	case FormatJSON:
		return a.exportJSON(suite)
	case FormatCSV:
		return a.exportCSV(suite)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (a *DefaultAggregator) exportJSON(suite *AggregatedSuite) ([]byte, error) {
	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

func (a *DefaultAggregator) exportCSV(suite *AggregatedSuite) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{"Template", "Mean (ns)", "Median (ns)", "Min (ns)", "Max (ns)", "StdDev (ns)", "Count"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range suite.Results {
		row := []string{
			result.Template,
			fmt.Sprintf("%d", result.Mean.Nanoseconds()),
			fmt.Sprintf("%d", result.Median.Nanoseconds()),
			fmt.Sprintf("%d", result.Min.Nanoseconds()),
			fmt.Sprintf("%d", result.Max.Nanoseconds()),
			fmt.Sprintf("%d", result.StdDev.Nanoseconds()),
			fmt.Sprintf("%d", result.Count),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

// CalculateStatistics calculates mean, median, and standard deviation for a
// set of durations.
func CalculateStatistics(durations []time.Duration) (mean, median, stdDev time.Duration) {
	if len(durations) == 0 {
		return 0, 0, 0
	}

	var sum int64
	for _, d := range durations {
		sum += d.Nanoseconds()
	}
	mean = time.Duration(sum / int64(len(durations)))

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var variance float64
	for _, d := range durations {
		diff := float64(d.Nanoseconds() - mean.Nanoseconds())
		variance += diff * diff
	}
	variance /= float64(len(durations))
	stdDev = time.Duration(math.Sqrt(variance))

	return mean, median, stdDev
}
