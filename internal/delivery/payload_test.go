package delivery

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func validRaw() map[string]any {
	return map[string]any{
		"messageId": "m1",
		"contactId": "6f1c7a3e-2b8d-4d7e-9a51-0c3f2e8b1d44",
		"content":   "coucou",
		"avatarId":  "cat",
	}
}

func TestParsePayload(t *testing.T) {
	raw := validRaw()
	raw["soundFile"] = "knock.caf"

	got, err := ParsePayload(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := Payload{
		MessageID: "m1",
		ContactID: uuid.MustParse("6f1c7a3e-2b8d-4d7e-9a51-0c3f2e8b1d44"),
		Content:   "coucou",
		AvatarID:  "cat",
		SoundFile: "knock.caf",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParsePayload() mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePayloadRejects(t *testing.T) {
	tests := []struct {
		name  string
		patch func(map[string]any)
	}{
		{"missing id", func(r map[string]any) { delete(r, "messageId") }},
		{"empty id", func(r map[string]any) { r["messageId"] = "" }},
		{"blank content", func(r map[string]any) { r["content"] = "  \n" }},
		{"missing avatar", func(r map[string]any) { delete(r, "avatarId") }},
		{"numeric content", func(r map[string]any) { r["content"] = 42 }},
		{"bad contact", func(r map[string]any) { r["contactId"] = "not-a-uuid" }},
		{"non-string sound", func(r map[string]any) { r["soundFile"] = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.patch(raw)
			if _, err := ParsePayload(raw); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("err = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("tap"); err != nil || m != ModeTap {
		t.Errorf("ParseMode(tap) = %q, %v", m, err)
	}
	if _, err := ParseMode("background"); err == nil {
		t.Error("ParseMode(background) should fail")
	}
}
