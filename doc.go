// Package man2pdf converts manual pages for shell commands into PDF files.
//
// # Quick Start
//
// Create a converter, convert a command, and close when done:
//
//	conv, err := man2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, "ls")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("created", result.OutputPath) // ls-manual.pdf
//
// # Conversion Pipeline
//
// Each conversion runs two stages:
//
//  1. Manual text retrieval: "man [section] <command>" with paging disabled,
//     piped through "col -b", then stripped of any remaining overstrike
//     sequences and terminal escapes (Fetcher).
//  2. PDF rendering of the plain text in the embedded Go Mono face, written
//     atomically to <command>-manual.pdf.
//
// A failed lookup is reported as a *LookupError, which matches ErrLookup.
// No file is written in that case.
//
// # Engines
//
// EngineNative (default) lays out text with fpdf and needs no external
// program besides man. Its output is byte-identical for identical input.
// EngineChrome prints an HTML rendition through headless Chrome (go-rod).
//
//	conv, err := man2pdf.NewConverter(
//	    man2pdf.WithEngine(man2pdf.EngineChrome),
//	    man2pdf.WithPage(man2pdf.PageSettings{Size: "a4", Orientation: "portrait", Margin: 0.75}),
//	    man2pdf.WithPageNumbers(true),
//	)
//
// # Parallel Processing
//
// A Converter is not safe for concurrent use. For batch conversion, use
// ConverterPool, which gives each worker its own converter:
//
//	pool := man2pdf.NewConverterPool(man2pdf.ResolvePoolSize(0, man2pdf.EngineNative))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, "pwd")
//
// # Rendering Existing Text
//
// Render skips the lookup and writes the given text directly:
//
//	result, err := conv.Render(ctx, "mytool", helpText)
package man2pdf
