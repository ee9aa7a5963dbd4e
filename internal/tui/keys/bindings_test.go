package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
)

func TestRegistry(t *testing.T) {
	var fired []string
	r := NewRegistry()
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'q', Description: "q:quit", Visible: true, Handler: func() { fired = append(fired, "quit") }})
	r.AddPage("reveal", &Action{Key: tcell.KeyRune, Rune: ' ', Description: "space:tap", Visible: true, Handler: func() { fired = append(fired, "tap") }})
	r.AddPage("reveal", &Action{Key: tcell.KeyEscape, Description: "esc:dismiss", Visible: true, Handler: func() { fired = append(fired, "dismiss") }})
	r.AddPage("reveal", &Action{Key: tcell.KeyRune, Rune: 'x', Handler: func() { fired = append(fired, "hidden") }})

	if diff := cmp.Diff([]string{"space:tap", "esc:dismiss", "q:quit"}, r.Hints("reveal")); diff != "" {
		t.Errorf("Hints(reveal) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"q:quit"}, r.Hints("inbox")); diff != "" {
		t.Errorf("Hints(inbox) mismatch (-want +got):\n%s", diff)
	}

	if !r.HandleEvent("reveal", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
		t.Error("space on reveal not handled")
	}
	if !r.HandleEvent("reveal", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("esc on reveal not handled")
	}
	if r.HandleEvent("inbox", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) {
		t.Error("space on inbox handled")
	}
	if !r.HandleEvent("inbox", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("global q not handled")
	}
	if diff := cmp.Diff([]string{"tap", "dismiss", "quit"}, fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
}
