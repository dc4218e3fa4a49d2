package man2pdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// Manual text retrieval errors.
	ErrLookup          = errors.New("manual page lookup failed")
	ErrManNotInstalled = errors.New("manual page reader not installed")
	ErrEmptyManual     = errors.New("manual page is empty")

	// Command name validation errors.
	ErrEmptyCommand   = errors.New("command name cannot be empty")
	ErrInvalidCommand = errors.New("invalid command name")

	// Rendering and output errors.
	ErrFontLoad      = errors.New("failed to load embedded font")
	ErrPDFGeneration = errors.New("PDF generation failed")
	ErrWritePDF      = errors.New("failed to write PDF file")

	// Browser errors (chrome engine).
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Option validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidFontSize    = errors.New("invalid font size")
	ErrInvalidEngine      = errors.New("invalid PDF engine")
)

// LookupError reports that the manual text for a command could not be
// retrieved. It matches ErrLookup and the underlying cause with errors.Is.
type LookupError struct {
	Command string
	Section string
	Stderr  string // trimmed stderr of the manual-page reader, if any
	Err     error
}

func (e *LookupError) Error() string {
	name := e.Command
	if e.Section != "" {
		name = fmt.Sprintf("%s(%s)", e.Command, e.Section)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("no manual entry for %s: %s", name, e.Stderr)
	}
	return fmt.Sprintf("no manual entry for %s: %v", name, e.Err)
}

func (e *LookupError) Unwrap() []error {
	return []error{ErrLookup, e.Err}
}
