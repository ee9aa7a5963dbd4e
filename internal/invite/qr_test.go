package invite

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLink(t *testing.T) {
	id := uuid.MustParse("6f1c7a3e-2b8d-4d7e-9a51-0c3f2e8b1d44")
	want := "knockavatar://compose/6f1c7a3e-2b8d-4d7e-9a51-0c3f2e8b1d44"
	if got := Link("knockavatar", id); got != want {
		t.Errorf("Link() = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	out, err := Render(Link("knockavatar", uuid.New()))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("rendered %d lines, want a full QR", len(lines))
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("output has no block characters")
	}
	width := len([]rune(lines[0]))
	for i, l := range lines {
		if n := len([]rune(l)); n != width {
			t.Errorf("line %d width = %d, want %d", i, n, width)
		}
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG("knockavatar://settings", 128)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}
