package telegram

import (
	"testing"

	"github.com/google/uuid"
)

func TestConfirmCallbackRoundTrip(t *testing.T) {
	id := uuid.New()
	data := buildConfirmCallback(id, 4)

	if len(data) > 64 {
		t.Fatalf("callback data is %d bytes, telegram allows 64", len(data))
	}

	gotID, slot, err := parseConfirmCallback(decodeCallback(data))
	if err != nil {
		t.Fatalf("parseConfirmCallback: %v", err)
	}
	if gotID != id || slot != 4 {
		t.Fatalf("got %s/%d, want %s/4", gotID, slot, id)
	}
}

func TestParseConfirmCallbackRejects(t *testing.T) {
	for _, data := range []string{
		"confirm",
		"confirm:not-a-uuid:1",
		"confirm:" + uuid.NewString() + ":x",
		"confirm:" + uuid.NewString() + ":-1",
		"other:" + uuid.NewString() + ":1",
	} {
		t.Run(data, func(t *testing.T) {
			if _, _, err := parseConfirmCallback(decodeCallback(data)); err == nil {
				t.Fatalf("expected error for %q", data)
			}
		})
	}
}
