// Package reporter renders a comparator.ComparisonResult as Markdown, HTML,
// or JSON.
//
// # Usage
//
//	compReporter := reporter.NewBasicComparisonReporter()
//	markdown, err := compReporter.GenerateMarkdown(result)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(markdown)
//
// The JSON report carries the same data as the Markdown report: a summary
// section, regression/improvement lists, and per-template entries with delta
// percentage, p-value, and effect size. The HTML report has a shorter summary
// (total comparisons, regressions, improvements, average delta) and the
// per-template table; it does not list regressed or improved templates.
package reporter
