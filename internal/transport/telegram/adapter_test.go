package telegram

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	kit "weddingbot/internal/transport"
)

func TestTruncateCallbackText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want int
		cut  bool
	}{
		{name: "short untouched", in: "hello", want: 5},
		{name: "exact limit untouched", in: strings.Repeat("a", 200), want: 200},
		{name: "over limit truncated", in: strings.Repeat("a", 250), want: 200, cut: true},
		{name: "multibyte runes", in: strings.Repeat("é", 230), want: 200, cut: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := truncateCallbackText(tt.in)
			if n := len([]rune(got)); n != tt.want {
				t.Fatalf("len = %d, want %d", n, tt.want)
			}
			if tt.cut && !strings.HasSuffix(got, "...") {
				t.Fatalf("truncated text missing ellipsis: %q", got[len(got)-10:])
			}
			if !tt.cut && got != tt.in {
				t.Fatalf("short text was modified: %q", got)
			}
		})
	}
}

func TestConvertUpdateClassification(t *testing.T) {
	t.Parallel()

	cb := tele.Update{
		ID: 7,
		Callback: &tele.Callback{
			ID:      "cbid",
			Data:    " venue ",
			Sender:  &tele.User{ID: 42, FirstName: "Ann"},
			Message: &tele.Message{ID: 3, Chat: &tele.Chat{ID: -100}},
		},
	}
	got, ok := convertUpdate(cb)
	if !ok || got.Kind != kit.UpdateCallback {
		t.Fatalf("callback update not classified: ok=%v kind=%q", ok, got.Kind)
	}
	if got.ID != 7 || got.Callback.Data != "venue" || got.Callback.ChatID != -100 || got.Callback.FromName != "Ann" {
		t.Fatalf("unexpected callback conversion: %+v", got.Callback)
	}

	msg := tele.Update{
		ID: 8,
		Message: &tele.Message{
			ID:     4,
			Chat:   &tele.Chat{ID: -100},
			Sender: &tele.User{ID: 42, FirstName: "Ann"},
			Text:   "/venue",
			UsersJoined: []tele.User{
				{ID: 1, FirstName: "Bob", IsBot: false},
				{ID: 2, FirstName: "Helper", IsBot: true},
			},
		},
	}
	got, ok = convertUpdate(msg)
	if !ok || got.Kind != kit.UpdateMessage {
		t.Fatalf("message update not classified: ok=%v kind=%q", ok, got.Kind)
	}
	if len(got.Message.Joined) != 2 || !got.Message.Joined[1].IsBot {
		t.Fatalf("joined members not converted: %+v", got.Message.Joined)
	}

	// Unknown kinds still carry the id so the cursor can advance past them.
	other := tele.Update{ID: 9}
	got, ok = convertUpdate(other)
	if ok || got.ID != 9 {
		t.Fatalf("unknown update: ok=%v id=%d", ok, got.ID)
	}
}

func TestInfoMenuLayout(t *testing.T) {
	t.Parallel()
	m := infoMenu()
	if len(m.InlineKeyboard) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.InlineKeyboard))
	}
	keys := []string{}
	for _, row := range m.InlineKeyboard {
		if len(row) != 2 {
			t.Fatalf("expected 2 buttons per row, got %d", len(row))
		}
		for _, b := range row {
			keys = append(keys, b.Data)
		}
	}
	want := []string{"venue", "schedule", "transport", "menu", "contact", "help"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("button %d = %q, want %q", i, keys[i], k)
		}
	}
}
