package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	man2pdf "github.com/alnah/go-man2pdf"
	"github.com/alnah/go-man2pdf/internal/hints"
)

// ErrSkipped marks commands not attempted because an earlier one failed
// under the fail-fast policy.
var ErrSkipped = errors.New("skipped after earlier failure")

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	Command    string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch processes commands with pool.Size() workers.
// Results are stored by input index. With failFast, the first failure
// cancels work still in flight and marks pending commands as skipped.
func convertBatch(ctx context.Context, pool Pool, commands []string, failFast bool, rep *reporter) []ConversionResult {
	if len(commands) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(commands))

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	results := make([]ConversionResult, len(commands))
	var wg sync.WaitGroup
	jobs := make(chan int, len(commands))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						Command: commands[idx],
						Err:     fmt.Errorf("%w: %w", ErrConverterInit, err),
					}
					rep.report(results[idx])
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				res := convertCommand(runCtx, conv, commands[idx])
				if res.Err != nil && errors.Is(context.Cause(runCtx), ErrSkipped) && errors.Is(res.Err, context.Canceled) {
					res.Err = ErrSkipped
				}
				results[idx] = res
				rep.report(res)

				if failFast && res.Err != nil && !errors.Is(res.Err, ErrSkipped) {
					cancel(ErrSkipped)
				}
			}
		}()
	}

	for i := range commands {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertCommand converts one command and returns the result.
func convertCommand(ctx context.Context, conv CommandConverter, command string) ConversionResult {
	result := ConversionResult{Command: command}

	if ctx.Err() != nil {
		if cause := context.Cause(ctx); errors.Is(cause, ErrSkipped) {
			result.Err = ErrSkipped
		} else {
			result.Err = ctx.Err()
		}
		return result
	}

	res, err := conv.Convert(ctx, command)
	if err != nil {
		result.Err = err
		return result
	}

	result.OutputPath = res.OutputPath
	result.Duration = res.Duration
	return result
}

// ResultSummary holds the count of succeeded, failed and skipped conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

func (s ResultSummary) String() string {
	if s.Skipped > 0 {
		return fmt.Sprintf("%d succeeded, %d failed, %d skipped", s.Succeeded, s.Failed, s.Skipped)
	}
	return fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed)
}

// countResults tallies conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err == nil:
			summary.Succeeded++
		case errors.Is(r.Err, ErrSkipped):
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	return summary
}

// reporter prints results as they arrive. Safe for concurrent use.
type reporter struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	verbose bool
	timed   bool // print per-command durations
}

func (r *reporter) report(res ConversionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case errors.Is(res.Err, ErrSkipped):
		if r.verbose {
			fmt.Fprintf(r.stderr, "SKIPPED %s\n", res.Command)
		}
	case res.Err != nil:
		fmt.Fprintf(r.stderr, "FAILED %s: %s\n", res.Command, withHint(res.Err, res.Command))
	case r.quiet:
	case r.timed:
		fmt.Fprintf(r.stdout, "Created %s in %.3f seconds\n", res.OutputPath, res.Duration.Seconds())
	default:
		fmt.Fprintf(r.stdout, "Created %s\n", res.OutputPath)
	}
}

// withHint appends an actionable hint for well-known failures.
func withHint(err error, command string) string {
	msg := err.Error()
	switch {
	case errors.Is(err, man2pdf.ErrBrowserConnect):
		msg += hints.ForBrowserConnect()
	case errors.Is(err, man2pdf.ErrManNotInstalled):
		msg += hints.ForManNotInstalled()
	case errors.Is(err, man2pdf.ErrLookup):
		msg += hints.ForLookup(command)
	case errors.Is(err, context.DeadlineExceeded):
		msg += hints.ForTimeout()
	case errors.Is(err, man2pdf.ErrWritePDF):
		msg += hints.ForOutputDirectory()
	}
	return msg
}
