package reporter

// ReportFormat represents the output format for comparison reports.
type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatHTML     ReportFormat = "html"
	FormatJSON     ReportFormat = "json"
)
