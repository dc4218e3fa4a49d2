package man2pdf

import (
	"strings"
	"unicode/utf8"
)

// tabWidth is the column stop used when expanding tabs.
const tabWidth = 8

// StripControl turns terminal-formatted manual output into flat text.
//
// It resolves overstrike sequences the way "col -b" does (the last character
// written to a column wins, so "a\ba" and "_\ba" both become "a"), drops ANSI
// escape sequences and other C0 controls except newline, expands tabs, and
// replaces invalid UTF-8. Applying it twice yields the same result.
func StripControl(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}

	out := make([]rune, 0, len(s))
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\b':
			if n := len(out); n > 0 && out[n-1] != '\n' {
				out = out[:n-1]
			}
		case r == 0x1b:
			i = skipEscape(runes, i)
		case r == '\n' || r == '\t':
			out = append(out, r)
		case r < 0x20 || r == 0x7f:
			// Carriage returns, form feeds and the rest carry no text.
		case r >= 0x80 && r < 0xa0:
			// C1 controls.
		default:
			out = append(out, r)
		}
	}

	return expandTabs(string(out))
}

// skipEscape returns the index of the last rune of the escape sequence
// starting at runes[i] (which is ESC).
func skipEscape(runes []rune, i int) int {
	if i+1 >= len(runes) {
		return i
	}
	switch runes[i+1] {
	case '[':
		// CSI: parameters and intermediates, then a final byte in 0x40-0x7e.
		for j := i + 2; j < len(runes); j++ {
			if runes[j] >= 0x40 && runes[j] <= 0x7e {
				return j
			}
		}
		return len(runes) - 1
	case ']':
		// OSC (groff emits OSC 8 hyperlinks): ends at BEL or ESC \.
		for j := i + 2; j < len(runes); j++ {
			if runes[j] == 0x07 {
				return j
			}
			if runes[j] == 0x1b && j+1 < len(runes) && runes[j+1] == '\\' {
				return j + 1
			}
		}
		return len(runes) - 1
	default:
		// Two-character escapes such as nroff's half-line motions (ESC 8, ESC 9).
		return i + 1
	}
}

// expandTabs replaces tabs with spaces up to the next tabWidth column.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
