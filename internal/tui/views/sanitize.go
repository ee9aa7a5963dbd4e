package views

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/tview"
)

// clean prepares user-supplied text for a tview cell: control characters and
// codepoints tcell renders at the wrong width are dropped, newlines collapse
// to spaces and color tags are escaped.
func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '\n' || r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r), isWidthBreaking(r):
		default:
			b.WriteRune(r)
		}
	}
	return tview.Escape(b.String())
}

// isWidthBreaking matches emoji modifiers and joiners that make tcell
// miscount cell widths.
func isWidthBreaking(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tones
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
		return true
	}
	return false
}
