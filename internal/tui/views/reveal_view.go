package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/tui/ui"
	"github.com/rivo/tview"
)

// RevealView shows the avatar and, once revealed, the message.
type RevealView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewRevealView creates the reveal overlay.
func NewRevealView(theme *ui.Theme) *RevealView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Knock knock ")
	tv.SetBorderColor(theme.BorderFocusColor)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	return &RevealView{TextView: tv, theme: theme}
}

// Update redraws the overlay for v.
func (r *RevealView) Update(v api.RevealView, sender string) {
	r.Clear()
	avatar := fmt.Sprintf("[#%06x::b]( %s )[-:-:-]", r.theme.AvatarColor.Hex(), clean(v.AvatarID))

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(avatar + "\n\n")
	switch v.State {
	case "ANIMATING":
		b.WriteString("[::d]someone is knocking...[-:-:-]\n")
	case "AWAITING_TAPS":
		fmt.Fprintf(&b, "%s\n\n", tapDots(v.Taps, v.Threshold))
		b.WriteString("[::d]space to tap, esc to dismiss[-:-:-]\n")
	case "REVEALED":
		if sender != "" {
			fmt.Fprintf(&b, "[::b]%s[-:-:-]\n\n", clean(sender))
		}
		if v.Message != nil {
			b.WriteString(clean(v.Message.Content) + "\n")
		}
		b.WriteString("\n[::d]esc to close[-:-:-]\n")
	}
	_, _ = fmt.Fprint(r, b.String())
}

// tapDots renders tap progress as filled and empty circles.
func tapDots(taps, threshold int) string {
	if threshold <= 0 {
		return ""
	}
	taps = min(taps, threshold)
	return strings.Repeat("●", taps) + strings.Repeat("○", threshold-taps)
}
