package views

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"line1\nline2\tend", "line1 line2 end"},
		{"bell\x07", "bell"},
		{"thumbs 👍🏻", "thumbs 👍"},
		{"heart ❤️", "heart ❤"},
		{"[red]not a tag[-]", "[red[]not a tag[-[]"},
	}
	for _, tt := range tests {
		if got := clean(tt.in); got != tt.want {
			t.Errorf("clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTapDots(t *testing.T) {
	if got := tapDots(1, 3); got != "●○○" {
		t.Errorf("tapDots(1, 3) = %q", got)
	}
	if got := tapDots(5, 3); got != "●●●" {
		t.Errorf("tapDots(5, 3) = %q", got)
	}
	if got := tapDots(0, 0); got != "" {
		t.Errorf("tapDots(0, 0) = %q", got)
	}
}
