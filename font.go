package man2pdf

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
)

// monoFamily is the font family name registered with both engines.
const monoFamily = "GoMono"

var (
	monoOnce sync.Once
	monoTTF  []byte
	monoErr  error
)

// MonoFont returns the embedded Go Mono TrueType data.
// The font is parsed once on first use; later calls return the same slice,
// which callers must not modify. Pass fpdf a copy.
func MonoFont() ([]byte, error) {
	monoOnce.Do(func() {
		monoTTF, monoErr = loadMonoFont(gomono.TTF)
	})
	return monoTTF, monoErr
}

// loadMonoFont checks that data is a usable TrueType face with the glyphs
// a manual page needs.
func loadMonoFont(data []byte) ([]byte, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}

	var buf sfnt.Buffer
	for _, r := range "Aa0-_|~" {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("%w: glyph %q: %v", ErrFontLoad, r, err)
		}
		if idx == 0 {
			return nil, fmt.Errorf("%w: missing glyph %q", ErrFontLoad, r)
		}
	}
	return bytes.Clone(data), nil
}
