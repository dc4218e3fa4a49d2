package main

import (
	"errors"
	"os"

	man2pdf "github.com/alnah/go-man2pdf"
	"github.com/alnah/go-man2pdf/internal/config"
)

// Exit codes for man2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All commands converted
	ExitGeneral = 1 // Lookup failure or other failed conversion
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Output directory or file could not be written
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// For a *BatchError each per-command error is classified on its own and the
// highest code wins: browser, then I/O, then usage, then general.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var batch *BatchError
	if errors.As(err, &batch) && len(batch.Errs) > 0 {
		code := ExitGeneral
		for _, e := range batch.Errs {
			code = max(code, classifyError(e))
		}
		return code
	}
	return classifyError(err)
}

// classifyError maps a single failure to its exit code. A rejected or
// unknown command name is a lookup failure, whatever the underlying cause.
func classifyError(err error) int {
	// Browser errors (exit 4)
	if errors.Is(err, man2pdf.ErrBrowserConnect) ||
		errors.Is(err, man2pdf.ErrPageCreate) ||
		errors.Is(err, man2pdf.ErrPageLoad) {
		return ExitBrowser
	}

	var lookup *man2pdf.LookupError
	if errors.As(err, &lookup) ||
		errors.Is(err, man2pdf.ErrEmptyCommand) ||
		errors.Is(err, man2pdf.ErrInvalidCommand) {
		return ExitGeneral
	}

	// I/O errors (exit 3)
	if errors.Is(err, man2pdf.ErrWritePDF) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, man2pdf.ErrInvalidEngine) ||
		errors.Is(err, man2pdf.ErrInvalidPageSize) ||
		errors.Is(err, man2pdf.ErrInvalidOrientation) ||
		errors.Is(err, man2pdf.ErrInvalidMargin) ||
		errors.Is(err, man2pdf.ErrInvalidFontSize) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidSection) ||
		errors.Is(err, ErrConflictingPolicy) {
		return ExitUsage
	}

	return ExitGeneral
}
