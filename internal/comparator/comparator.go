package comparator

import (
	"math"
	"sort"

	"github.com/jpequegn/kvbench/internal/aggregator"
)

// Comparator defines the interface for comparing aggregated result suites
// with statistical significance testing layered on top of the plain
// threshold comparison aggregator.Aggregator already provides.
type Comparator interface {
	// Compare compares a baseline suite against a current suite
	Compare(baseline, current *aggregator.AggregatedSuite) *ComparisonResult

	// GetSignificance determines if the difference between two results is statistically significant
	GetSignificance(baseline, current *aggregator.AggregatedResult, confidenceLevel float64) (significant bool, pValue float64)

	// CalculateConfidenceInterval calculates the confidence interval for a set of aggregated results
	CalculateConfidenceInterval(results []*aggregator.AggregatedResult, confidenceLevel float64) (lower, upper float64)
}

// ComparisonResult represents the result of comparing two aggregated suites
type ComparisonResult struct {
	// Templates contains comparison data for each pattern template
	Templates []*TemplateComparison

	// Summary contains aggregate statistics about the comparison
	Summary ComparisonSummary

	// Regressions lists templates that regressed
	Regressions []string

	// Improvements lists templates that improved
	Improvements []string

	// Statistics contains detailed statistics about the comparison
	Statistics ComparisonStats
}

// TemplateComparison represents a single template's comparison
type TemplateComparison struct {
	// Template is the pattern template string
	Template string

	// Baseline is the baseline aggregated result
	Baseline *aggregator.AggregatedResult

	// Current is the current aggregated result
	Current *aggregator.AggregatedResult

	// TimeDelta is the time change in percentage (negative = faster, positive = slower)
	TimeDelta float64

	// IsRegression indicates if this is a performance regression
	IsRegression bool

	// IsSignificant indicates if the difference is statistically significant
	IsSignificant bool

	// ConfidenceLevel is the confidence level used (e.g., 0.95 for 95%)
	ConfidenceLevel float64

	// TTestPValue is the p-value from the t-test
	TTestPValue float64

	// EffectSize is Cohen's d effect size
	EffectSize float64

	// RegressionThreshold is the threshold for regression detection
	RegressionThreshold float64
}

// ComparisonSummary contains aggregate summary statistics
type ComparisonSummary struct {
	// TotalComparisons is the total number of comparisons
	TotalComparisons int

	// Regressions is the count of regressions
	Regressions int

	// Improvements is the count of improvements
	Improvements int

	// AverageDelta is the average time delta percentage
	AverageDelta float64

	// MaxDelta is the maximum time delta percentage
	MaxDelta float64

	// MinDelta is the minimum time delta percentage
	MinDelta float64

	// SignificantChanges is the count of statistically significant changes
	SignificantChanges int
}

// ComparisonStats contains detailed statistical information
type ComparisonStats struct {
	// ConfidenceLevel is the confidence level used
	ConfidenceLevel float64

	// SignificanceLevel is 1 - ConfidenceLevel
	SignificanceLevel float64

	// RegressionThreshold is the threshold for regression detection
	RegressionThreshold float64
}

// BasicComparator implements the Comparator interface
type BasicComparator struct {
	// ConfidenceLevel is the desired confidence level (default: 0.95)
	ConfidenceLevel float64

	// RegressionThreshold is the multiplier for regression detection (default: 1.05 = 5%)
	RegressionThreshold float64
}

// NewBasicComparator creates a new BasicComparator with default settings
func NewBasicComparator() *BasicComparator {
	return &BasicComparator{
		ConfidenceLevel:     0.95,
		RegressionThreshold: 1.05,
	}
}

// Compare compares a baseline suite against a current suite, template by template
func (bc *BasicComparator) Compare(baseline, current *aggregator.AggregatedSuite) *ComparisonResult {
	result := &ComparisonResult{
		Templates:    make([]*TemplateComparison, 0),
		Regressions:  make([]string, 0),
		Improvements: make([]string, 0),
		Statistics: ComparisonStats{
			ConfidenceLevel:     bc.ConfidenceLevel,
			SignificanceLevel:   1 - bc.ConfidenceLevel,
			RegressionThreshold: bc.RegressionThreshold,
		},
	}

	if baseline == nil || current == nil || len(baseline.Results) == 0 || len(current.Results) == 0 {
		return result
	}

	// Create a map of baseline results by template for quick lookup
	baselineMap := make(map[string]*aggregator.AggregatedResult)
	for _, br := range baseline.Results {
		baselineMap[br.Template] = br
	}

	// Compare each current result with its baseline
	for _, currentResult := range current.Results {
		baselineResult, found := baselineMap[currentResult.Template]
		if !found {
			// No baseline for this template, skip it
			continue
		}

		comparison := bc.compareResults(baselineResult, currentResult)
		result.Templates = append(result.Templates, comparison)

		// Track regressions and improvements
		if comparison.IsRegression {
			result.Regressions = append(result.Regressions, comparison.Template)
		} else if comparison.TimeDelta < 0 {
			result.Improvements = append(result.Improvements, comparison.Template)
		}
	}

	// Calculate summary statistics
	result.Summary = bc.calculateSummary(result)

	return result
}

// compareResults compares two aggregated results for the same template
func (bc *BasicComparator) compareResults(baseline, current *aggregator.AggregatedResult) *TemplateComparison {
	comparison := &TemplateComparison{
		Template:            current.Template,
		Baseline:            baseline,
		Current:             current,
		ConfidenceLevel:     bc.ConfidenceLevel,
		RegressionThreshold: bc.RegressionThreshold,
	}

	// Calculate time delta percentage (negative = faster, positive = slower)
	if baseline.Mean == 0 {
		comparison.TimeDelta = 0
	} else {
		comparison.TimeDelta = ((float64(current.Mean) - float64(baseline.Mean)) / float64(baseline.Mean)) * 100
	}

	// Determine if this is a regression based on threshold
	timeRatio := float64(current.Mean) / float64(baseline.Mean)
	comparison.IsRegression = timeRatio > bc.RegressionThreshold

	// Calculate statistical significance
	comparison.IsSignificant, comparison.TTestPValue = bc.GetSignificance(baseline, current, bc.ConfidenceLevel)

	// Calculate effect size
	comparison.EffectSize = CohensDEffect(
		[]float64{float64(baseline.Mean)},
		[]float64{float64(current.Mean)},
	)

	return comparison
}

// calculateSummary calculates summary statistics from comparisons
func (bc *BasicComparator) calculateSummary(result *ComparisonResult) ComparisonSummary {
	summary := ComparisonSummary{
		TotalComparisons: len(result.Templates),
		Regressions:      len(result.Regressions),
		Improvements:     len(result.Improvements),
	}

	if len(result.Templates) == 0 {
		return summary
	}

	// Calculate average, max, and min deltas
	deltas := make([]float64, 0, len(result.Templates))
	for _, comp := range result.Templates {
		deltas = append(deltas, comp.TimeDelta)
		if comp.IsSignificant {
			summary.SignificantChanges++
		}
	}

	if len(deltas) > 0 {
		sort.Float64s(deltas)
		summary.MinDelta = deltas[0]
		summary.MaxDelta = deltas[len(deltas)-1]

		// Calculate average
		sum := 0.0
		for _, d := range deltas {
			sum += d
		}
		summary.AverageDelta = sum / float64(len(deltas))
	}

	return summary
}

// GetSignificance determines if the difference between two results is statistically significant
// Uses a simple t-test with the assumption that we have minimal data
func (bc *BasicComparator) GetSignificance(baseline, current *aggregator.AggregatedResult, confidenceLevel float64) (bool, float64) {
	if baseline == nil || current == nil || baseline.Mean == 0 || current.Mean == 0 {
		return false, 1.0
	}

	// For simplicity, we'll use a very basic approach:
	// Calculate the relative difference and use standard deviation
	baselineTime := float64(baseline.Mean)
	currentTime := float64(current.Mean)
	baselineStdDev := float64(baseline.StdDev)
	currentStdDev := float64(current.StdDev)

	// If we don't have standard deviations, estimate them
	if baselineStdDev == 0 {
		baselineStdDev = baselineTime * 0.05 // Assume 5% variance
	}
	if currentStdDev == 0 {
		currentStdDev = currentTime * 0.05
	}

	// Calculate pooled standard deviation
	pooledStdDev := math.Sqrt((baselineStdDev*baselineStdDev + currentStdDev*currentStdDev) / 2)

	// Calculate t-statistic (simplified with n=1)
	if pooledStdDev == 0 {
		pooledStdDev = baselineTime * 0.01 // Avoid division by zero
	}

	tStat := (currentTime - baselineTime) / pooledStdDev

	// Approximate p-value from t-statistic
	// For practical purposes with small sample sizes, we use a simple threshold
	pValue := 2 * (1 - normalCDF(math.Abs(tStat)))

	// Determine significance at the given confidence level
	alpha := 1 - confidenceLevel
	isSignificant := pValue < alpha

	return isSignificant, pValue
}

// CalculateConfidenceInterval calculates the confidence interval for a set of aggregated results
func (bc *BasicComparator) CalculateConfidenceInterval(results []*aggregator.AggregatedResult, confidenceLevel float64) (lower, upper float64) {
	if len(results) == 0 {
		return 0, 0
	}

	// Calculate mean
	sum := 0.0
	for _, r := range results {
		sum += float64(r.Mean)
	}
	mean := sum / float64(len(results))

	// Calculate standard deviation
	varianceSum := 0.0
	for _, r := range results {
		diff := float64(r.Mean) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(results)-1))

	// Calculate confidence interval using t-distribution approximation
	// For small samples, use a simple z-score approximation
	zScore := 1.96 // 95% confidence
	if confidenceLevel == 0.99 {
		zScore = 2.576 // 99% confidence
	}

	marginOfError := zScore * (stdDev / math.Sqrt(float64(len(results))))
	lower = mean - marginOfError
	upper = mean + marginOfError

	// Ensure lower bound is not negative
	if lower < 0 {
		lower = 0
	}

	return lower, upper
}

// normalCDF approximates the cumulative distribution function of the standard normal distribution
// Using a rational approximation
func normalCDF(x float64) float64 {
	// Constants for rational approximation
	b1 := 0.319381530
	b2 := -0.356563782
	b3 := 1.781477937
	b4 := -1.821255978
	b5 := 1.330274429
	p := 0.2316419
	c := 0.39894228

	if x >= 0 {
		t := 1.0 / (1.0 + p*x)
		return 1.0 - c*math.Exp(-x*x/2.0)*t*(b1+t*(b2+t*(b3+t*(b4+t*b5))))
	}
	t := 1.0 / (1.0 - p*x)
	return c * math.Exp(-x*x/2.0) * t * (b1 + t*(b2+t*(b3+t*(b4+t*b5))))
}

// CohensDEffect calculates Cohen's d effect size
func CohensDEffect(group1, group2 []float64) float64 {
	if len(group1) == 0 || len(group2) == 0 {
		return 0
	}

	// Calculate means
	mean1 := calculateMean(group1)
	mean2 := calculateMean(group2)

	// Calculate standard deviations
	std1 := calculateStdDev(group1, mean1)
	std2 := calculateStdDev(group2, mean2)

	// Calculate pooled standard deviation
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	if n1+n2 <= 2 {
		// No degrees of freedom for a pooled standard deviation.
		return 0
	}
	variance1 := std1 * std1
	variance2 := std2 * std2

	pooledVariance := ((n1-1)*variance1 + (n2-1)*variance2) / (n1 + n2 - 2)
	pooledStdDev := math.Sqrt(pooledVariance)

	if pooledStdDev == 0 {
		return 0
	}

	// Calculate Cohen's d
	d := (mean2 - mean1) / pooledStdDev
	return d
}

// calculateMean calculates the mean of a slice
func calculateMean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// calculateStdDev calculates the standard deviation of a slice
func calculateStdDev(data []float64, mean float64) float64 {
	if len(data) <= 1 {
		return 0
	}
	varianceSum := 0.0
	for _, v := range data {
		diff := v - mean
		varianceSum += diff * diff
	}
	variance := varianceSum / float64(len(data)-1)
	return math.Sqrt(variance)
}
