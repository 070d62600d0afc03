// Package output renders score reports as console text, JSON or Markdown.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/dotcommander/igbcscore/internal/baseline"
	"github.com/dotcommander/igbcscore/internal/engine"
)

// Result is the evaluation of one snapshot file.
type Result struct {
	File        string
	Report      engine.Report
	Regressions []baseline.Regression
}

// BelowThreshold reports whether the total is under a non-zero threshold.
func (r Result) BelowThreshold(failUnder int) bool {
	return failUnder > 0 && r.Report.Total < failUnder
}

// Failed reports whether the file fails the threshold or regressed.
func (r Result) Failed(failUnder int) bool {
	return r.BelowThreshold(failUnder) || len(r.Regressions) > 0
}

// Summary holds the results of one scoring run.
type Summary struct {
	Results   []Result
	FailUnder int
	StartTime time.Time
}

// FailedFiles counts results below the threshold or with regressions.
func (s *Summary) FailedFiles() int {
	n := 0
	for _, r := range s.Results {
		if r.Failed(s.FailUnder) {
			n++
		}
	}
	return n
}

// TotalRegressions counts regressions across all results.
func (s *Summary) TotalRegressions() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Regressions)
	}
	return n
}

// Average is the mean total across results.
func (s *Summary) Average() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range s.Results {
		sum += r.Report.Total
	}
	return float64(sum) / float64(len(s.Results))
}

// MaxTotal is the maximum achievable total.
func (s *Summary) MaxTotal() int {
	for _, r := range s.Results {
		if r.Report.MaxTotal > 0 {
			return r.Report.MaxTotal
		}
	}
	return 0
}

// Perfect reports whether every result earns the maximum.
func (s *Summary) Perfect() bool {
	if len(s.Results) == 0 {
		return false
	}
	for _, r := range s.Results {
		if r.Report.MaxTotal == 0 || r.Report.Total < r.Report.MaxTotal {
			return false
		}
	}
	return true
}

// ColorEnabled resolves a color mode (auto, always, never) for a writer.
// auto colors only terminals.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput writes content to a file when path is set, otherwise to w.
func writeOutput(w io.Writer, path string, content []byte) error {
	if path != "" {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", path, err)
		}
		return nil
	}
	_, err := w.Write(content)
	return err
}
