package man2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alnah/go-man2pdf/internal/process"
)

// Manual reader defaults.
const (
	DefaultManPath  = "man"
	DefaultManWidth = 80
)

// DefaultFilter removes backspace overstrikes from the reader output.
var DefaultFilter = []string{"col", "-b"}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// Env entries are appended to the current process environment.
type ExecRunner struct {
	Env []string
}

// Run executes name with args, feeding stdin when non-nil.
// The child runs in its own process group, killed when ctx is done.
func (r *ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- reader and filter are configured, args are validated
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	cmd.Stdin = stdin
	process.Isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// manEnv forces plain, non-paged output at a fixed width.
func manEnv(width int) []string {
	return []string{
		"MANPAGER=cat",
		"PAGER=cat",
		"MANWIDTH=" + strconv.Itoa(width),
		"MAN_KEEP_FORMATTING=",
	}
}

// Fetcher retrieves the plain text of manual pages.
type Fetcher struct {
	Runner  CommandRunner
	ManPath string   // reader binary, default "man"
	Section string   // optional section, passed before the command name
	Filter  []string // control-character filter; nil = built-in stripping only
}

// NewFetcher creates a Fetcher that runs the system man and "col -b" with
// output formatted to width columns.
func NewFetcher(width int) *Fetcher {
	if width <= 0 {
		width = DefaultManWidth
	}
	return &Fetcher{
		Runner:  &ExecRunner{Env: manEnv(width)},
		ManPath: DefaultManPath,
		Filter:  append([]string(nil), DefaultFilter...),
	}
}

// Fetch returns the manual text for command with all terminal formatting removed.
// Any failure to produce text is returned as a *LookupError; context
// cancellation is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, command string) (string, error) {
	if err := ValidateCommand(command); err != nil {
		return "", err
	}

	manPath := f.ManPath
	if manPath == "" {
		manPath = DefaultManPath
	}

	args := make([]string, 0, 2)
	if f.Section != "" {
		args = append(args, f.Section)
	}
	args = append(args, command)

	stdout, stderr, err := f.Runner.Run(ctx, nil, manPath, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if isNotInstalled(err) {
			err = fmt.Errorf("%w: %s", ErrManNotInstalled, manPath)
		}
		return "", f.lookupError(command, stderr, err)
	}

	text, err := f.filter(ctx, stdout)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", f.lookupError(command, "", err)
	}

	text = StripControl(text)
	if strings.TrimSpace(text) == "" {
		return "", f.lookupError(command, strings.TrimSpace(stderr), ErrEmptyManual)
	}

	return text, nil
}

// filter pipes text through the external filter. A filter that is not
// installed is skipped; StripControl covers what it would have removed.
func (f *Fetcher) filter(ctx context.Context, text string) (string, error) {
	if len(f.Filter) == 0 {
		return text, nil
	}

	stdout, stderr, err := f.Runner.Run(ctx, strings.NewReader(text), f.Filter[0], f.Filter[1:]...)
	if err != nil {
		if isNotInstalled(err) {
			return text, nil
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", fmt.Errorf("filter %s: %s: %w", f.Filter[0], msg, err)
		}
		return "", fmt.Errorf("filter %s: %w", f.Filter[0], err)
	}
	return stdout, nil
}

func (f *Fetcher) lookupError(command, stderr string, err error) *LookupError {
	return &LookupError{
		Command: command,
		Section: f.Section,
		Stderr:  strings.TrimSpace(stderr),
		Err:     err,
	}
}

// isNotInstalled reports whether err means the binary could not be found.
func isNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
