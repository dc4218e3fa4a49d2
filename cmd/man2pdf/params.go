package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	man2pdf "github.com/alnah/go-man2pdf"
	"github.com/alnah/go-man2pdf/internal/config"
)

// Sentinel errors for flag validation.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrConflictingPolicy  = errors.New("--fail-fast and --keep-going are mutually exclusive")
	ErrInvalidSection     = errors.New("invalid manual section")
)

// runSettings is the resolved configuration of one run: flags merged over
// config merged over defaults.
type runSettings struct {
	engine    man2pdf.Engine
	parallel  bool
	workers   int
	failFast  bool
	outputDir string
	quiet     bool
	verbose   bool
	manPath   string
	filter    []string // nil when external filtering is disabled
	opts      []man2pdf.Option
}

// buildSettings merges CLI flags into config (CLI wins) and validates the result.
func buildSettings(flags *cliFlags, cfg *config.Config) (*runSettings, error) {
	s := &runSettings{
		parallel:  flags.parallel || cfg.Parallel,
		outputDir: cfg.Output.Dir,
		quiet:     flags.quiet,
		verbose:   flags.verbose && !flags.quiet,
	}

	if flags.output != "" {
		s.outputDir = flags.output
	}

	workers, err := resolveWorkers(flags.workers, cfg.Workers)
	if err != nil {
		return nil, err
	}
	s.workers = workers

	failFast, err := resolveFailFast(flags.policy, cfg.FailFast, s.parallel)
	if err != nil {
		return nil, err
	}
	s.failFast = failFast

	engineName := cfg.Engine
	if flags.engine != "" {
		engineName = flags.engine
	}
	s.engine, err = man2pdf.ParseEngine(engineName)
	if err != nil {
		return nil, err
	}

	page, err := buildPageSettings(flags.page, cfg.Page)
	if err != nil {
		return nil, err
	}

	fontSize := man2pdf.DefaultFontSize
	if cfg.Font.Size != 0 {
		fontSize = cfg.Font.Size
	}
	if flags.fontSize != 0 {
		fontSize = flags.fontSize
	}
	if fontSize < man2pdf.MinFontSize || fontSize > man2pdf.MaxFontSize {
		return nil, fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)", man2pdf.ErrInvalidFontSize, fontSize, man2pdf.MinFontSize, man2pdf.MaxFontSize)
	}

	timeout, err := resolveTimeout(flags.timeout, cfg)
	if err != nil {
		return nil, err
	}

	section := cfg.Man.Section
	if flags.section != "" {
		section = flags.section
	}
	if strings.ContainsAny(section, " /\x00") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSection, section)
	}

	s.manPath = man2pdf.DefaultManPath
	if cfg.Man.Path != "" {
		s.manPath = cfg.Man.Path
	}
	s.filter = append([]string(nil), man2pdf.DefaultFilter...)
	if cfg.Man.Filter != "" {
		s.filter = cfg.Man.FilterArgs()
	}

	s.opts = []man2pdf.Option{
		man2pdf.WithEngine(s.engine),
		man2pdf.WithPage(*page),
		man2pdf.WithFontSize(fontSize),
		man2pdf.WithPageNumbers(flags.pageNumbers || cfg.Footer.PageNumbers),
		man2pdf.WithOutputDir(s.outputDir),
		man2pdf.WithSection(section),
		man2pdf.WithManPath(cfg.Man.Path),
		man2pdf.WithManWidth(cfg.Man.Width),
	}
	if cfg.Man.Filter != "" {
		s.opts = append(s.opts, man2pdf.WithFilter(cfg.Man.FilterArgs()...))
	}
	if timeout > 0 {
		s.opts = append(s.opts, man2pdf.WithTimeout(timeout))
	}

	return s, nil
}

// resolveWorkers validates the worker count. The flag wins over config.
func resolveWorkers(flagWorkers, cfgWorkers int) (int, error) {
	n := cfgWorkers
	if flagWorkers != 0 {
		n = flagWorkers
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return 0, fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return n, nil
}

// resolveFailFast picks the failure policy.
// Priority: flags > config > mode default (sequential stops, parallel continues).
func resolveFailFast(f policyFlags, cfgFailFast *bool, parallel bool) (bool, error) {
	switch {
	case f.failFast && f.keepGoing:
		return false, ErrConflictingPolicy
	case f.failFast:
		return true, nil
	case f.keepGoing:
		return false, nil
	case cfgFailFast != nil:
		return *cfgFailFast, nil
	}
	return !parallel, nil
}

// resolveTimeout parses the timeout. The flag wins over config; zero keeps
// the converter default.
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue == "" {
		d, err := cfg.TimeoutDuration()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
		}
		return d, nil
	}

	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use format like 30s, 2m, 1m30s)", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// buildPageSettings merges page flags over config and applies defaults.
func buildPageSettings(flags pageFlags, cfg config.PageConfig) (*man2pdf.PageSettings, error) {
	ps := man2pdf.DefaultPageSettings()

	if cfg.Size != "" {
		ps.Size = cfg.Size
	}
	if cfg.Orientation != "" {
		ps.Orientation = cfg.Orientation
	}
	if cfg.Margin != 0 {
		ps.Margin = cfg.Margin
	}

	// CLI flags override config
	if flags.size != "" {
		ps.Size = flags.size
	}
	if flags.orientation != "" {
		ps.Orientation = flags.orientation
	}
	if flags.margin != 0 {
		ps.Margin = flags.margin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}
