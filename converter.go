package man2pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-man2pdf/internal/fileutil"
)

// manualFetcher abstracts manual text retrieval to enable testing without man.
type manualFetcher interface {
	Fetch(ctx context.Context, command string) (string, error)
}

// Compile-time interface check
var _ manualFetcher = (*Fetcher)(nil)

// outputPerm is the permission of written PDF files.
const outputPerm = 0o644

// Converter fetches manual pages and writes them as PDF files.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter is not safe for concurrent use; use a ConverterPool for parallelism.
type Converter struct {
	cfg      converterConfig
	fetcher  manualFetcher
	renderer renderer
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithEngine, WithPage, WithOutputDir).
// Returns an error if an option value is out of range.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{cfg: defaultConverterConfig()}

	for _, opt := range opts {
		opt(c)
	}

	engine, err := ParseEngine(string(c.cfg.engine))
	if err != nil {
		return nil, err
	}
	c.cfg.engine = engine

	if err := c.cfg.page.Validate(); err != nil {
		return nil, err
	}
	if c.cfg.fontSize < MinFontSize || c.cfg.fontSize > MaxFontSize {
		return nil, fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)", ErrInvalidFontSize, c.cfg.fontSize, MinFontSize, MaxFontSize)
	}

	if c.fetcher == nil {
		c.fetcher = c.newFetcher()
	}

	if c.renderer == nil {
		switch c.cfg.engine {
		case EngineChrome:
			c.renderer = newChromeRenderer(c.cfg)
		default:
			c.renderer = newNativeRenderer(c.cfg)
		}
	}

	return c, nil
}

func (c *Converter) newFetcher() *Fetcher {
	f := NewFetcher(c.cfg.manWidth)
	f.ManPath = c.cfg.manPath
	f.Section = c.cfg.section
	if c.cfg.filterSet {
		f.Filter = c.cfg.filter
	}
	if c.cfg.runner != nil {
		f.Runner = c.cfg.runner
	}
	return f
}

// Engine returns the engine the converter renders with.
func (c *Converter) Engine() Engine {
	return c.cfg.engine
}

// Convert fetches the manual for command and writes <command>-manual.pdf.
// The call is bounded by the converter timeout. Nothing is written when the
// lookup fails. Result.Duration covers fetch and render.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, command string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ValidateCommand(command); err != nil {
		return nil, err
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	text, err := c.fetcher.Fetch(ctx, command)
	if err != nil {
		return nil, err
	}

	result, err = c.render(ctx, command, text)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// Render writes text as <command>-manual.pdf in the output directory,
// replacing any existing file. The file is written atomically.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Render(ctx context.Context, command, text string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ValidateCommand(command); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err = c.render(ctx, command, text)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (c *Converter) render(ctx context.Context, command, text string) (*Result, error) {
	doc := Document{Command: command, Section: c.cfg.section, Text: text}

	data, err := c.renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}

	path := c.OutputPath(command)
	if err := fileutil.WriteFileAtomic(path, data, outputPerm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWritePDF, err)
	}

	return &Result{
		Command:    command,
		OutputPath: path,
		Size:       len(data),
	}, nil
}

// OutputPath returns where the PDF for command is written.
func (c *Converter) OutputPath(command string) string {
	return filepath.Join(c.cfg.outputDir, OutputFileName(command))
}

// Close releases resources (headless Chrome browser for the chrome engine).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
