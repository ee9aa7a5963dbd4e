package views

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/model"
	"github.com/matheus3301/knock/internal/tui/ui"
	"github.com/rivo/tview"
)

// hiddenContent stands in for an unread message until it is revealed.
const hiddenContent = "• • •"

// Inbox lists received messages, newest first.
type Inbox struct {
	*tview.Table
	theme    *ui.Theme
	messages []model.ReceivedMessage
}

// NewInbox creates the inbox table.
func NewInbox(theme *ui.Theme) *Inbox {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true).SetTitle(" Inbox ")
	table.SetBorderColor(theme.BorderColor)
	table.SetTitleColor(theme.TitleColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.Foreground(theme.TableCursorFg).Background(theme.TableCursorBg))
	return &Inbox{Table: table, theme: theme}
}

// Update redraws the table. name resolves a sender id to a display name.
func (v *Inbox) Update(messages []model.ReceivedMessage, name func(uuid.UUID) string) {
	row, _ := v.GetSelection()
	v.messages = messages
	v.Clear()

	for col, h := range []string{"", " From", " Message", " Received"} {
		v.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(v.theme.TableHeaderFg))
	}
	for i, m := range messages {
		r := i + 1
		mark, content := " ", clean(m.Content)
		color := v.theme.FgColor
		if !m.Read {
			mark, content = "●", hiddenContent
			color = v.theme.UnreadColor
		}
		v.SetCell(r, 0, tview.NewTableCell(mark).SetTextColor(v.theme.UnreadColor))
		v.SetCell(r, 1, tview.NewTableCell(" "+clean(name(m.FromContactID))).SetMaxWidth(24).SetTextColor(color))
		v.SetCell(r, 2, tview.NewTableCell(" "+content).SetExpansion(1).SetTextColor(color))
		v.SetCell(r, 3, tview.NewTableCell(" "+formatTimestamp(m.ReceivedAt)).SetTextColor(color))
	}

	switch {
	case len(messages) == 0:
		v.SetTitle(" Inbox (empty) ")
	case row < 1:
		v.Select(1, 0)
	case row > len(messages):
		v.Select(len(messages), 0)
	}
	if len(messages) > 0 {
		v.SetTitle(" Inbox ")
	}
}

// Selected returns the highlighted message.
func (v *Inbox) Selected() (model.ReceivedMessage, bool) {
	row, _ := v.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.messages) {
		return model.ReceivedMessage{}, false
	}
	return v.messages[idx], true
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02 15:04")
}
