package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-man2pdf/internal/fileutil"
	"github.com/alnah/go-man2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config value")
)

// appDirName is the directory under the user config dir searched for named configs.
const appDirName = "go-man2pdf"

// Value bounds checked by Validate. Zero always means "use the default".
const (
	MaxWorkers   = 64
	MinManWidth  = 40
	MaxManWidth  = 400
	MinMargin    = 0.25
	MaxMargin    = 3.0
	MinFontSize  = 6.0
	MaxFontSize  = 16.0
	FilterNone   = "none" // man.filter value that disables the external filter
	engineNative = "native"
	engineChrome = "chrome"
)

// Config holds all configuration for a man2pdf run.
type Config struct {
	Engine   string       `yaml:"engine"`   // "native" (default) or "chrome"
	Parallel bool         `yaml:"parallel"` // convert concurrently
	Workers  int          `yaml:"workers"`  // 0 = auto
	FailFast *bool        `yaml:"failFast"` // nil = mode default
	Timeout  string       `yaml:"timeout"`  // per command, "" = none
	Output   OutputConfig `yaml:"output"`
	Man      ManConfig    `yaml:"man"`
	Page     PageConfig   `yaml:"page"`
	Font     FontConfig   `yaml:"font"`
	Footer   FooterConfig `yaml:"footer"`
}

// OutputConfig defines where PDFs are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = current directory
}

// ManConfig defines how manual text is retrieved.
type ManConfig struct {
	Path    string `yaml:"path"`    // reader binary (default: man)
	Section string `yaml:"section"` // e.g. "1", "3p"
	Width   int    `yaml:"width"`   // MANWIDTH (default: 80)
	Filter  string `yaml:"filter"`  // e.g. "col -b"; "none" = built-in stripping only
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// FontConfig defines the body font.
type FontConfig struct {
	Size float64 `yaml:"size"` // points
}

// FooterConfig defines the page footer.
type FooterConfig struct {
	PageNumbers bool `yaml:"pageNumbers"`
}

// Validate checks enum values and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Engine) {
	case "", engineNative, engineChrome:
	default:
		return invalid("engine", "%q (must be native or chrome)", c.Engine)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return invalid("workers", "%d (must be between 0 and %d)", c.Workers, MaxWorkers)
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if c.Man.Width != 0 && (c.Man.Width < MinManWidth || c.Man.Width > MaxManWidth) {
		return invalid("man.width", "%d (must be between %d and %d)", c.Man.Width, MinManWidth, MaxManWidth)
	}
	if strings.ContainsAny(c.Man.Section, " /\x00") {
		return invalid("man.section", "%q", c.Man.Section)
	}

	switch strings.ToLower(c.Page.Size) {
	case "", "letter", "a4", "legal":
	default:
		return invalid("page.size", "%q (must be letter, a4, or legal)", c.Page.Size)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return invalid("page.orientation", "%q (must be portrait or landscape)", c.Page.Orientation)
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinMargin || c.Page.Margin > MaxMargin) {
		return invalid("page.margin", "%.2f (must be between %.2f and %.2f)", c.Page.Margin, MinMargin, MaxMargin)
	}

	if c.Font.Size != 0 && (c.Font.Size < MinFontSize || c.Font.Size > MaxFontSize) {
		return invalid("font.size", "%.1f (must be between %.0f and %.0f)", c.Font.Size, MinFontSize, MaxFontSize)
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, invalid("timeout", "%q: %v", c.Timeout, err)
	}
	if d < 0 {
		return 0, invalid("timeout", "%q (must not be negative)", c.Timeout)
	}
	return d, nil
}

// FilterArgs splits Man.Filter into a command line.
// Returns nil for "none"; an empty filter keeps the default.
func (m ManConfig) FilterArgs() []string {
	if strings.EqualFold(strings.TrimSpace(m.Filter), FilterNone) {
		return nil
	}
	return strings.Fields(m.Filter)
}

// invalid builds a field-qualified ErrInvalidConfig.
func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}

// DefaultConfig returns a configuration where every field means "use the default".
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yamlutil.DecodeStrict(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists, in order, the files tried for a config name:
// the current directory, then the user config directory (.yaml before .yml).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
