package man2pdf

import "time"

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	engine      Engine
	page        PageSettings
	fontSize    float64
	pageNumbers bool
	outputDir   string
	timeout     time.Duration
	created     time.Time

	manPath   string
	section   string
	manWidth  int
	filter    []string
	filterSet bool
	runner    CommandRunner
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

func defaultConverterConfig() converterConfig {
	return converterConfig{
		engine:   EngineNative,
		page:     *DefaultPageSettings(),
		fontSize: DefaultFontSize,
		timeout:  defaultTimeout,
		created:  reproducibleEpoch,
		manPath:  DefaultManPath,
		manWidth: DefaultManWidth,
	}
}

// WithEngine selects the PDF engine. The default is EngineNative.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithPage sets page size, orientation and margin.
// Settings are validated by NewConverter.
func WithPage(p PageSettings) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}

// WithFontSize sets the body font size in points.
func WithFontSize(pt float64) Option {
	return func(c *Converter) {
		c.cfg.fontSize = pt
	}
}

// WithPageNumbers adds a footer with the page title and number.
func WithPageNumbers(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.pageNumbers = enabled
	}
}

// WithOutputDir sets the directory PDFs are written to.
// Empty means the current working directory.
func WithOutputDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.outputDir = dir
	}
}

// WithTimeout bounds each Convert call (fetch and render together).
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("man2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithCreationDate sets the creation date stamped by the native engine.
// The default is the Unix epoch, which keeps output reproducible.
func WithCreationDate(t time.Time) Option {
	return func(c *Converter) {
		c.cfg.created = t
	}
}

// WithManPath sets the manual-page reader binary. The default is "man".
func WithManPath(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.cfg.manPath = path
		}
	}
}

// WithSection restricts lookups to one manual section.
func WithSection(section string) Option {
	return func(c *Converter) {
		c.cfg.section = section
	}
}

// WithManWidth sets the column width the reader formats to.
func WithManWidth(width int) Option {
	return func(c *Converter) {
		if width > 0 {
			c.cfg.manWidth = width
		}
	}
}

// WithFilter replaces the control-character filter command ("col -b").
// Calling it with no arguments disables the external filter; the built-in
// stripping still runs.
func WithFilter(args ...string) Option {
	return func(c *Converter) {
		c.cfg.filter = append([]string(nil), args...)
		c.cfg.filterSet = true
	}
}

// WithRunner replaces the command runner used to invoke the reader and filter.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.cfg.runner = r
	}
}

// withFetcher injects a fetcher (tests).
func withFetcher(f manualFetcher) Option {
	return func(c *Converter) {
		c.fetcher = f
	}
}

// withRenderer injects a renderer (tests).
func withRenderer(r renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}
