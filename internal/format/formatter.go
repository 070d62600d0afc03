// Package format rewrites snapshot files in their canonical form: every
// field present, keys in a stable order, preset groups carrying their preset
// values and exactly one trailing newline.
package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dotcommander/igbcscore/internal/project"
)

// Formatter formats snapshot files canonically.
type Formatter interface {
	// Format takes raw file content and returns formatted content.
	// Returns the original content and an error if formatting fails.
	Format(content []byte) ([]byte, error)
}

// SnapshotFormatter formats snapshots of one encoding.
type SnapshotFormatter struct {
	format project.Format
}

// NewSnapshotFormatter creates a formatter for a snapshot encoding.
func NewSnapshotFormatter(f project.Format) Formatter {
	return &SnapshotFormatter{format: f}
}

// ForPath picks the formatter from a file extension.
func ForPath(path string) (Formatter, error) {
	f, err := project.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return NewSnapshotFormatter(f), nil
}

// Format decodes the snapshot and encodes it again.
func (f *SnapshotFormatter) Format(content []byte) ([]byte, error) {
	in, err := project.Decode(content, f.format)
	if err != nil {
		return content, err
	}
	out, err := project.Encode(in, f.format)
	if err != nil {
		return content, err
	}
	return ensureTrailingNewline(out), nil
}

func ensureTrailingNewline(b []byte) []byte {
	b = bytes.TrimRight(b, "\n")
	return append(b, '\n')
}

// Diff returns a simple line diff between original and formatted content.
// Returns empty string if no differences.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", filename)
	fmt.Fprintf(&buf, "+++ %s (formatted)\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	// Simple line-by-line diff
	maxLen := max(len(origLines), len(fmtLines))
	for i := 0; i < maxLen; i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				fmt.Fprintf(&buf, "- %s\n", origLine)
			}
			if fmtLine != "" {
				fmt.Fprintf(&buf, "+ %s\n", fmtLine)
			}
		}
	}

	return buf.String()
}
