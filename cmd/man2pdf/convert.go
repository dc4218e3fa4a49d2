package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	man2pdf "github.com/alnah/go-man2pdf"
)

// dirPermissions is used when creating the output directory.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// ErrConverterInit wraps failures to create a converter before any work starts.
var ErrConverterInit = errors.New("failed to initialize converter")

// BatchError reports that one or more commands failed.
// It unwraps to every per-command error so exitCodeFor can inspect them.
type BatchError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.Failed, e.Total)
}

func (e *BatchError) Unwrap() []error {
	return e.Errs
}

// runConvert converts every command and prints the outcome.
// Sequential runs use one converter and keep input order; parallel runs use
// a pool sized by ResolvePoolSize.
func runConvert(ctx context.Context, commands []string, s *runSettings, env *Environment) error {
	if len(commands) == 0 {
		if !s.quiet {
			fmt.Fprintln(env.Stdout, "PDF files created successfully.")
		}
		return nil
	}

	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating output directory: %w", man2pdf.ErrWritePDF, err)
		}
	}

	size := 1
	if s.parallel {
		size = min(man2pdf.ResolvePoolSize(s.workers, s.engine), len(commands))
	}
	if s.verbose {
		mode := "sequential"
		if s.parallel {
			mode = "parallel"
		}
		fmt.Fprintf(env.Stderr, "Engine: %s, mode: %s, pool size: %d, fail-fast: %v\n", s.engine, mode, size, s.failFast)
	}

	pool := env.NewPool(size, s.opts...)
	defer pool.Close()

	// Surface option and engine errors once instead of once per command.
	conv, err := pool.Acquire()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConverterInit, err)
	}
	pool.Release(conv)

	rep := &reporter{
		stdout:  env.Stdout,
		stderr:  env.Stderr,
		quiet:   s.quiet,
		verbose: s.verbose,
		timed:   !s.parallel || s.verbose,
	}

	start := env.Now()
	results := convertBatch(ctx, pool, commands, s.failFast, rep)
	elapsed := env.Now().Sub(start)

	summary := countResults(results)
	if !s.quiet {
		if s.parallel || s.verbose {
			fmt.Fprintf(env.Stdout, "Total elapsed time: %.3f seconds\n", elapsed.Seconds())
		}
		if summary.Failed == 0 {
			fmt.Fprintln(env.Stdout, "PDF files created successfully.")
		} else if len(results) > 1 {
			fmt.Fprintln(env.Stdout, summary.String())
		}
	}

	if summary.Failed > 0 {
		errs := make([]error, 0, summary.Failed)
		for _, r := range results {
			if r.Err != nil && !errors.Is(r.Err, ErrSkipped) {
				errs = append(errs, r.Err)
			}
		}
		return &BatchError{Failed: summary.Failed, Total: len(results), Errs: errs}
	}
	return nil
}
