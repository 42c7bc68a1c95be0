// Package aggregator groups kvbench result-CSV samples by pattern template
// and computes latency statistics, for offline comparison across runs.
//
// # Overview
//
// A kvbench result CSV has one line per completed pattern, in global
// start-time order. This package groups those lines by their command
// template (the dash-separated sequence of GET/SET/DEL verbs) and produces
// mean, median, min, max, and standard deviation of total pattern duration
// per template. It also provides comparison capabilities to detect latency
// regressions between two runs of the same corpus.
//
// # Usage
//
// Basic aggregation:
//
//	agg := aggregator.NewAggregator()
//	suite, err := agg.Aggregate(resultSet)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := agg.Export(suite, aggregator.FormatJSON)
//
// Comparison and regression detection:
//
//	comparison, err := agg.Compare(baseline, current, 5.0) // 5% threshold
//	if comparison.RegressionCount > 0 {
//	    for _, comp := range comparison.Comparisons {
//	        if comp.Regression {
//	            log.Printf("%s regressed by %.2f%%\n", comp.Template, comp.DeltaPercent)
//	        }
//	    }
//	}
//
// # Comparison logic
//
//   - Delta: absolute time difference (current - baseline)
//   - DeltaPercent: percentage change ((delta / baseline) × 100)
//   - Regression: DeltaPercent > threshold AND positive (slower)
//   - Improvement: DeltaPercent > threshold AND negative (faster)
//   - Unchanged: |DeltaPercent| ≤ threshold
//
// # Thread safety
//
// DefaultAggregator is stateless and safe for concurrent use.
package aggregator
