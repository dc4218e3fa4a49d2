package man2pdf

import (
	"fmt"
	"strings"
	"time"
)

// Engine selects the PDF backend.
type Engine string

// Supported engines.
const (
	// EngineNative renders with a pure-Go PDF writer. Output is byte-identical
	// for identical input.
	EngineNative Engine = "native"

	// EngineChrome renders through headless Chrome. Requires a browser.
	EngineChrome Engine = "chrome"
)

// ParseEngine converts a name to an Engine (case-insensitive).
// An empty name selects EngineNative.
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(name)) {
	case "", EngineNative:
		return EngineNative, nil
	case EngineChrome:
		return EngineChrome, nil
	}
	return "", fmt.Errorf("%w: %q (must be native or chrome)", ErrInvalidEngine, name)
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Font size bounds in points.
const (
	MinFontSize     = 6.0
	MaxFontSize     = 16.0
	DefaultFontSize = 9.0
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, _, ok := paperInches(p.Size); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Dimensions returns the page width and height in inches, orientation applied.
// The settings must have been validated.
func (p *PageSettings) Dimensions() (width, height float64) {
	width, height, _ = paperInches(p.Size)
	if p.landscape() {
		width, height = height, width
	}
	return width, height
}

func (p *PageSettings) landscape() bool {
	return strings.EqualFold(p.Orientation, OrientationLandscape)
}

// paperInches returns portrait dimensions for a page size (case-insensitive).
func paperInches(size string) (width, height float64, ok bool) {
	switch strings.ToLower(size) {
	case PageSizeLetter:
		return 8.5, 11, true
	case PageSizeA4:
		return 8.27, 11.69, true
	case PageSizeLegal:
		return 8.5, 14, true
	}
	return 0, 0, false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// ValidateCommand checks that a command name is usable both as an argument
// to the manual-page reader and as part of an output file name.
func ValidateCommand(command string) error {
	if command == "" {
		return ErrEmptyCommand
	}
	if strings.HasPrefix(command, "-") {
		return fmt.Errorf("%w: %q (must not start with '-')", ErrInvalidCommand, command)
	}
	if strings.ContainsAny(command, "/\\\x00") {
		return fmt.Errorf("%w: %q (must not contain path separators)", ErrInvalidCommand, command)
	}
	if command == "." || command == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, command)
	}
	return nil
}

// OutputFileName returns the PDF file name for a command: "<command>-manual.pdf".
func OutputFileName(command string) string {
	return command + "-manual.pdf"
}

// Document is the input to a PDF engine.
type Document struct {
	Command string // command name, e.g. "ls"
	Section string // manual section, may be empty
	Text    string // plain manual text
}

// Title returns "ls" or "ls(1)" when a section is known.
func (d Document) Title() string {
	if d.Section == "" {
		return d.Command
	}
	return d.Command + "(" + d.Section + ")"
}

// Result describes one written PDF.
type Result struct {
	Command    string
	OutputPath string
	Size       int // bytes written
	Duration   time.Duration
}
