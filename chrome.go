package man2pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-man2pdf/internal/fileutil"
	"github.com/alnah/go-man2pdf/internal/process"
)

// chromeRenderer prints an HTML rendition of the manual through headless Chrome.
// Rod downloads Chromium on first run if no browser is found.
// Not safe for concurrent use; the pool gives each worker its own renderer.
type chromeRenderer struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	timeout     time.Duration
	page        PageSettings
	fontSize    float64
	pageNumbers bool
}

func newChromeRenderer(cfg converterConfig) *chromeRenderer {
	return &chromeRenderer{
		timeout:     cfg.timeout,
		page:        cfg.page,
		fontSize:    cfg.fontSize,
		pageNumbers: cfg.pageNumbers,
	}
}

// ensureBrowser lazily connects to the browser.
func (r *chromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return nil
}

// Close shuts the browser down and kills what is left of its process group.
func (r *chromeRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Render writes the HTML rendition to a temp file, opens it and prints it.
func (r *chromeRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	font, err := MonoFont()
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(buildHTML(doc, r.fontSize, font), "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	return r.renderFile(ctx, tmpPath, doc)
}

// renderFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *chromeRenderer) renderFile(ctx context.Context, filePath string, doc Document) ([]byte, error) {
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page = page.Context(ctx)
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPDFOptions(r.page, r.pageNumbers, doc.Title()))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildHTML wraps the escaped manual text in a <pre> block styled with the
// embedded monospace face.
func buildHTML(doc Document, fontSize float64, font []byte) string {
	var b strings.Builder
	b.Grow(len(doc.Text) + base64.StdEncoding.EncodedLen(len(font)) + 512)

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Title()))
	b.WriteString("<style>\n")
	fmt.Fprintf(&b, "@font-face { font-family: %q; src: url(data:font/ttf;base64,", monoFamily)
	b.WriteString(base64.StdEncoding.EncodeToString(font))
	b.WriteString(") format(\"truetype\"); }\n")
	b.WriteString("html, body { margin: 0; padding: 0; }\n")
	fmt.Fprintf(&b, "pre { font-family: %q, monospace; font-size: %.1fpt; line-height: %.1f; ", monoFamily, fontSize, lineSpacing)
	b.WriteString("white-space: pre-wrap; overflow-wrap: anywhere; margin: 0; }\n")
	b.WriteString("</style>\n</head>\n<body>\n<pre>")
	b.WriteString(html.EscapeString(doc.Text))
	b.WriteString("</pre>\n</body>\n</html>\n")

	return b.String()
}

// buildPDFOptions constructs proto.PagePrintToPDF with optional footer.
func buildPDFOptions(page PageSettings, pageNumbers bool, title string) *proto.PagePrintToPDF {
	width, height := page.Dimensions()
	marginBottom := page.Margin
	if pageNumbers {
		marginBottom += footerReserve
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(page.Margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(page.Margin),
		MarginRight:     floatPtr(page.Margin),
		PrintBackground: true,
	}

	if pageNumbers {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>" // Empty header
		pdfOpts.FooterTemplate = buildFooterTemplate(title, page.Margin)
	}

	return pdfOpts
}

// buildFooterTemplate generates an HTML template for Chrome's native footer:
// the page title on the left, the page number on the right.
func buildFooterTemplate(title string, margin float64) string {
	return fmt.Sprintf(
		`<div style="font-size: %.0fpt; font-family: monospace; color: #808080; width: 100%%; display: flex; justify-content: space-between; padding: 0 %.2fin;">`+
			`<span>%s</span><span class="pageNumber"></span></div>`,
		footerFontSize, margin, html.EscapeString(title))
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
