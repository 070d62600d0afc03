package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/igbcscore/internal/baseline"
	"github.com/dotcommander/igbcscore/internal/insight"
	"github.com/dotcommander/igbcscore/internal/scoring"
	"github.com/dotcommander/igbcscore/internal/types"
)

// Version is reported in JSON and Markdown headers.
var Version = "dev"

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	quiet      bool
	indent     bool
	outputFile string
	out        io.Writer
}

// NewJSONFormatter creates a new JSONFormatter. Without an output file the
// report goes to stdout.
func NewJSONFormatter(quiet bool, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		quiet:      quiet,
		indent:     indent,
		outputFile: outputFile,
		out:        os.Stdout,
	}
}

// SetOutput redirects stdout output.
func (f *JSONFormatter) SetOutput(w io.Writer) { f.out = w }

// Format formats the score summary as JSON
func (f *JSONFormatter) Format(summary *Summary) error {
	report := f.build(summary)

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(report, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeOutput(f.out, f.outputFile, append(jsonBytes, '\n'))
}

func (f *JSONFormatter) build(summary *Summary) JSONReport {
	start := summary.StartTime
	if start.IsZero() {
		start = time.Now()
	}

	report := JSONReport{
		Header: JSONHeader{
			Tool:      "igbcscore",
			Version:   Version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			TotalFiles:  len(summary.Results),
			FailedFiles: summary.FailedFiles(),
			Average:     summary.Average(),
			MaxTotal:    summary.MaxTotal(),
			FailUnder:   summary.FailUnder,
			Regressions: summary.TotalRegressions(),
			Duration:    time.Since(start).Round(time.Millisecond).String(),
		},
		Results: make([]JSONResult, len(summary.Results)),
	}

	for i, r := range summary.Results {
		rep := r.Report
		res := JSONResult{
			File:        r.File,
			Total:       rep.Total,
			MaxTotal:    rep.MaxTotal,
			Percent:     rep.Percent(),
			Passed:      !r.Failed(summary.FailUnder),
			Categories:  rep.Categories,
			Regressions: r.Regressions,
		}
		for _, c := range rep.Credits {
			jc := JSONCredit{
				ID:        c.ID,
				Category:  c.Category,
				Title:     c.Title,
				Points:    c.Points,
				MaxPoints: c.MaxPoints,
				Complete:  c.Complete(),
				Insights:  rep.InsightsFor(c.ID),
			}
			if !f.quiet {
				jc.Details = c.Details
			}
			res.Credits = append(res.Credits, jc)
		}
		report.Results[i] = res
	}
	return report
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	TotalFiles  int     `json:"total_files"`
	FailedFiles int     `json:"failed_files"`
	Average     float64 `json:"average"`
	MaxTotal    int     `json:"max_total"`
	FailUnder   int     `json:"fail_under,omitempty"`
	Regressions int     `json:"regressions"`
	Duration    string  `json:"duration"`
}

// JSONResult represents a single snapshot's score
type JSONResult struct {
	File        string                  `json:"file"`
	Total       int                     `json:"total"`
	MaxTotal    int                     `json:"max_total"`
	Percent     float64                 `json:"percent"`
	Passed      bool                    `json:"passed"`
	Categories  []scoring.CategoryScore `json:"categories"`
	Credits     []JSONCredit            `json:"credits"`
	Regressions []baseline.Regression   `json:"regressions,omitempty"`
}

// JSONCredit is one credit with its breakdown and guidance.
type JSONCredit struct {
	ID        types.CreditID          `json:"id"`
	Category  types.CategoryID        `json:"category"`
	Title     string                  `json:"title"`
	Points    int                     `json:"points"`
	MaxPoints int                     `json:"max_points"`
	Complete  bool                    `json:"complete"`
	Details   []scoring.ScoringMetric `json:"details,omitempty"`
	Insights  []insight.Insight       `json:"insights,omitempty"`
}
