package content

import (
	"testing"
	"unicode/utf8"
)

func TestLookupCoversAllMenuTopics(t *testing.T) {
	t.Parallel()
	for _, key := range []string{"venue", "schedule", "transport", "menu", "contact", "help"} {
		text, ok := Lookup(key)
		if !ok {
			t.Fatalf("Lookup(%q) missing", key)
		}
		if text == "" {
			t.Fatalf("Lookup(%q) empty", key)
		}
		if utf8.RuneCountInString(text) > 200 {
			t.Fatalf("Lookup(%q) = %d runes, popup answers are capped at 200", key, utf8.RuneCountInString(text))
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()
	if _, ok := Lookup("rsvp"); ok {
		t.Fatal("unexpected topic")
	}
	if _, ok := Lookup(""); ok {
		t.Fatal("unexpected topic for empty key")
	}
}

func TestAck(t *testing.T) {
	t.Parallel()
	if got := Ack("venue"); got != "✅ Venue info sent!" {
		t.Fatalf("Ack = %q", got)
	}
	if got := Ack(""); got != "✅ Info sent!" {
		t.Fatalf("Ack = %q", got)
	}
}
