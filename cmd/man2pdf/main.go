package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-man2pdf/internal/config"
	"github.com/alnah/go-man2pdf/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Parse flags first to know whether maxprocs may log.
	// Errors are reported by runMain.
	verbose := false
	if flags, _, err := parseFlags(os.Args); err == nil {
		verbose = flags.verbose
	}

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	var undo func()
	if verbose {
		undo, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		undo, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	code := runMain(os.Args, DefaultEnv())
	if undo != nil {
		undo()
	}
	os.Exit(code)
}

// runMain parses args, runs the conversion and returns the process exit code.
// args[0] is the program name.
func runMain(args []string, env *Environment) int {
	flags, commands, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'man2pdf --help' for usage.")
		return ExitUsage
	}

	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "go-man2pdf %s\n", Version)
		return ExitSuccess
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, config.ErrConfigNotFound) {
				msg += hints.ForConfigNotFound(config.SearchPaths(flags.config))
			}
			fmt.Fprintf(env.Stderr, "error: loading config: %s\n", msg)
			return exitCodeFor(err)
		}
	}

	settings, err := buildSettings(flags, cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	if flags.doctor {
		return runDoctorCmd(settings, flags.json, env)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, commands, settings, env); err != nil {
		var batchErr *BatchError
		if !errors.As(err, &batchErr) {
			// Per-command failures were already reported as they happened.
			fmt.Fprintf(env.Stderr, "error: %s\n", withHint(err, ""))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}
