package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: man2pdf [flags] command [commands ...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert manual pages to PDF files named <command>-manual.pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run:")
	fmt.Fprintln(w, "  -P, --parallel            Convert commands concurrently")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: current directory)")
	fmt.Fprintln(w, "  -s, --section <s>         Manual section passed to man")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-command timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --fail-fast           Stop after the first failure (default when sequential)")
	fmt.Fprintln(w, "  -k, --keep-going          Continue after failures (default when parallel)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <name>       PDF engine: native, chrome")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "      --font-size <f>       Font size in points (6-16)")
	fmt.Fprintln(w, "      --page-numbers        Print a footer with page numbers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show pool size and timing details")
	fmt.Fprintln(w, "      --doctor              Check man, col, Chrome and the output directory")
	fmt.Fprintln(w, "      --json                With --doctor, print JSON")
	fmt.Fprintln(w, "      --version             Print version")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 lookup or conversion failure, 2 usage or config error,")
	fmt.Fprintln(w, "  3 output I/O error, 4 browser error")
}
