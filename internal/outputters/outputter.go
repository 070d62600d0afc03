package outputters

import (
	"fmt"
	"os"
	"time"

	"github.com/dotcommander/igbcscore/internal/config"
	"github.com/dotcommander/igbcscore/internal/output"
	"github.com/dotcommander/igbcscore/internal/types"
)

// FormatCompact is the console layout used for multi-snapshot runs.
const FormatCompact = "compact"

// Formatter renders a score summary
type Formatter interface {
	Format(summary *output.Summary) error
}

// FormatterFactory creates formatters by format name
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters of the output package from config
type DefaultFormatterFactory struct {
	config *config.Config
}

// NewDefaultFormatterFactory creates a DefaultFormatterFactory
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{config: cfg}
}

// CreateFormatter returns the formatter for a format name
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	cfg := f.config
	color := output.ColorEnabled(cfg.Color, os.Stdout)

	switch format {
	case types.FormatConsole:
		formatter := output.NewConsoleFormatter(cfg.Quiet, cfg.Verbose, cfg.ShowInsights, cfg.ShowDetails)
		formatter.SetColor(color)
		return formatter, nil
	case FormatCompact:
		formatter := output.NewCompactFormatter(cfg.Quiet, cfg.Verbose)
		formatter.SetColor(color)
		return formatter, nil
	case types.FormatJSON:
		return output.NewJSONFormatter(cfg.Quiet, true, cfg.Output), nil
	case types.FormatMarkdown:
		return output.NewMarkdownFormatter(cfg.Quiet, cfg.Verbose, cfg.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter
func NewOutputter(cfg *config.Config) *Outputter {
	return NewOutputterWithFactory(cfg, NewDefaultFormatterFactory(cfg))
}

// NewOutputterWithFactory creates an Outputter with a custom factory
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
	}
}

// Format formats the summary using the given format. Multi-snapshot console
// runs use the compact layout unless details or verbose output are wanted.
func (o *Outputter) Format(summary *output.Summary, format string) error {
	if summary == nil {
		return fmt.Errorf("no summary to format")
	}
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}
	if summary.FailUnder == 0 {
		summary.FailUnder = o.config.FailUnder
	}

	if format == types.FormatConsole && len(summary.Results) > 1 && !o.config.Verbose && !o.config.ShowDetails {
		format = FormatCompact
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	if err := formatter.Format(summary); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}
