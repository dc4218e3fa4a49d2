package man2pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// renderer turns a Document into PDF bytes.
type renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ renderer = (*nativeRenderer)(nil)
	_ renderer = (*chromeRenderer)(nil)
)

const (
	// lineSpacing is the line height as a multiple of the font size.
	lineSpacing = 1.2

	// footerReserve is the space in inches added to the bottom margin for the footer.
	footerReserve = 0.25

	// footerFontSize is the footer text size in points.
	footerFontSize = 8.0

	pointsPerInch = 72.0

	creatorName = "go-man2pdf"
)

// reproducibleEpoch is stamped as creation and modification date so identical
// input yields identical bytes.
var reproducibleEpoch = time.Unix(0, 0).UTC()

// nativeRenderer lays out text with fpdf. Each Render builds a fresh document,
// so a nativeRenderer is safe to reuse sequentially and holds no resources.
type nativeRenderer struct {
	page        PageSettings
	fontSize    float64
	pageNumbers bool
	created     time.Time
}

func newNativeRenderer(cfg converterConfig) *nativeRenderer {
	return &nativeRenderer{
		page:        cfg.page,
		fontSize:    cfg.fontSize,
		pageNumbers: cfg.pageNumbers,
		created:     cfg.created,
	}
}

// Render writes doc.Text in the embedded monospace face, one MultiCell for
// the whole text. fpdf handles wrapping and page breaks.
func (r *nativeRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	font, err := MonoFont()
	if err != nil {
		return nil, err
	}

	width, height := r.page.Dimensions()
	margin := r.page.Margin
	bottom := margin
	if r.pageNumbers {
		bottom += footerReserve
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.created)
	pdf.SetModificationDate(r.created)
	pdf.SetTitle(doc.Title(), true)
	pdf.SetSubject("Manual page for "+doc.Title(), true)
	pdf.SetCreator(creatorName, true)

	// fpdf writes into the font buffer while subsetting it.
	pdf.AddUTF8FontFromBytes(monoFamily, "", bytes.Clone(font))
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, bottom)

	if r.pageNumbers {
		title := doc.Title()
		pdf.SetFooterFunc(func() {
			lineHeight := footerFontSize * lineSpacing / pointsPerInch
			pdf.SetY(-bottom + (footerReserve-lineHeight)/2)
			pdf.SetFont(monoFamily, "", footerFontSize)
			pdf.SetTextColor(0x80, 0x80, 0x80)
			pdf.CellFormat(0, lineHeight, title, "", 0, "L", false, 0, "")
			pdf.SetX(margin)
			pdf.CellFormat(0, lineHeight, strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
		})
	}

	pdf.AddPage()
	pdf.SetFont(monoFamily, "", r.fontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, r.fontSize*lineSpacing/pointsPerInch, doc.Text, "", "L", false)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

// Close is a no-op; fpdf holds no external resources.
func (r *nativeRenderer) Close() error {
	return nil
}
