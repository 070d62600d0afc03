// Package baseline records the per-credit points of scored snapshots so later
// runs can detect credits that lost points.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dotcommander/igbcscore/internal/engine"
	"github.com/dotcommander/igbcscore/internal/types"
)

// Version of the baseline file layout.
const Version = "1.0"

// Entry is the recorded score of one snapshot file.
type Entry struct {
	File    string                 `json:"file"`
	Credits map[types.CreditID]int `json:"credits"`
	Total   int                    `json:"total"`
}

// Baseline represents the scores of a set of snapshot files at one point in time
type Baseline struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Entries   map[string]Entry `json:"entries"` // keyed by fingerprint
}

// Regression is a credit that earns fewer points than recorded.
type Regression struct {
	File   string         `json:"file"`
	Credit types.CreditID `json:"credit"`
	Title  string         `json:"title"`
	Before int            `json:"before"`
	After  int            `json:"after"`
}

func (r Regression) String() string {
	return fmt.Sprintf("%s %s (%s): %d -> %d", r.File, r.Credit, r.Title, r.Before, r.After)
}

// New returns an empty baseline stamped with the current time.
func New() *Baseline {
	return &Baseline{
		Version:   Version,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:   make(map[string]Entry),
	}
}

// CreateBaseline records a report per file.
func CreateBaseline(reports map[string]engine.Report) *Baseline {
	b := New()
	for file, r := range reports {
		b.Record(file, r)
	}
	return b
}

// Record stores or replaces the entry for a file.
func (b *Baseline) Record(file string, r engine.Report) {
	if b.Entries == nil {
		b.Entries = make(map[string]Entry)
	}
	credits := make(map[types.CreditID]int, len(r.Credits))
	for _, c := range r.Credits {
		credits[c.ID] = c.Points
	}
	b.Entries[fingerprint(file)] = Entry{
		File:    normalizePath(file),
		Credits: credits,
		Total:   r.Total,
	}
}

// Lookup returns the entry recorded for a file.
func (b *Baseline) Lookup(file string) (Entry, bool) {
	e, ok := b.Entries[fingerprint(file)]
	return e, ok
}

// Compare lists the credits of r that fell below the recorded points, in
// report order. A file without an entry has no regressions.
func (b *Baseline) Compare(file string, r engine.Report) []Regression {
	e, ok := b.Lookup(file)
	if !ok {
		return nil
	}
	var out []Regression
	for _, c := range r.Credits {
		before, ok := e.Credits[c.ID]
		if !ok || c.Points >= before {
			continue
		}
		out = append(out, Regression{
			File:   e.File,
			Credit: c.ID,
			Title:  c.Title,
			Before: before,
			After:  c.Points,
		})
	}
	return out
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	if b.Entries == nil {
		b.Entries = make(map[string]Entry)
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// fingerprint is a stable hash of the file's cleaned, slash-separated path.
func fingerprint(file string) string {
	hash := sha256.Sum256([]byte(normalizePath(file)))
	return fmt.Sprintf("%x", hash)
}

func normalizePath(file string) string {
	return filepath.ToSlash(filepath.Clean(file))
}
