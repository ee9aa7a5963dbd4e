package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays the profile, notification permission and inbox counters.
type StatusBar struct {
	*tview.TextView
	profile       string
	authorization string
	unread        int
	scheduled     int
	hints         []string
	flash         string
	flashErr      bool
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetCounters updates the authorization and message counters.
func (sb *StatusBar) SetCounters(authorization string, unread, scheduled int) {
	sb.authorization = authorization
	sb.unread = unread
	sb.scheduled = scheduled
	sb.render()
}

// SetHints updates the key hints for the front page.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string, isErr bool) {
	sb.flash = msg
	sb.flashErr = isErr
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	auth := sb.authorization
	if auth == "denied" {
		auth = "[red]notifications off[-]"
	}

	clock := time.Now().Format("15:04")
	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %d unread | %d scheduled | %s", sb.profile, auth, sb.unread, sb.scheduled, clock)
	switch {
	case sb.flash != "" && sb.flashErr:
		line += fmt.Sprintf(" | [red]%s[-]", tview.Escape(sb.flash))
	case sb.flash != "":
		line += fmt.Sprintf(" | [yellow]%s[-]", tview.Escape(sb.flash))
	case len(sb.hints) > 0:
		line += " | [::d]" + strings.Join(sb.hints, "  ") + "[-:-:-]"
	}

	_, _ = fmt.Fprint(sb, line)
}
