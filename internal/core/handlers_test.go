package core

import (
	"context"
	"strings"
	"testing"

	"weddingbot/internal/content"
	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

func TestCallbackKnownTopic(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{}
	h := NewHandlers(out, testGroup, logx.Nop())

	h.HandleCallback(context.Background(), &kit.Callback{ID: "q1", Data: "venue", FromName: "Ann"})

	if len(out.answers) != 1 {
		t.Fatalf("answers = %d, want 1", len(out.answers))
	}
	want, _ := content.Lookup("venue")
	if out.answers[0] != want || !out.alerts[0] {
		t.Fatalf("answered %q alert=%v", out.answers[0], out.alerts[0])
	}
}

func TestCallbackFallbackOnFailure(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{failAnswer: true}
	h := NewHandlers(out, testGroup, logx.Nop())

	h.HandleCallback(context.Background(), &kit.Callback{ID: "q1", Data: "schedule"})

	// Full content first, then the short acknowledgment, nothing after.
	if len(out.answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(out.answers))
	}
	if !strings.Contains(out.answers[1], "info sent") || out.alerts[1] {
		t.Fatalf("fallback = %q alert=%v", out.answers[1], out.alerts[1])
	}
}

func TestCallbackUnknownTopic(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{}
	h := NewHandlers(out, testGroup, logx.Nop())

	h.HandleCallback(context.Background(), &kit.Callback{ID: "q1", Data: "nonsense"})

	if len(out.answers) != 1 || out.answers[0] != content.UnknownOption || out.alerts[0] {
		t.Fatalf("answers = %+v alerts = %+v", out.answers, out.alerts)
	}
}

func TestCommandsOnlyInGroup(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{}
	h := NewHandlers(out, testGroup, logx.Nop())
	sess := &session{}

	h.HandleMessage(context.Background(), sess, &kit.Message{ID: 1, ChatID: 777, Text: "/venue"})
	if len(out.sends) != 0 {
		t.Fatalf("replied outside the group: %+v", out.sends)
	}

	h.HandleMessage(context.Background(), sess, &kit.Message{ID: 2, ChatID: testGroup, Text: "plain text"})
	if len(out.sends) != 0 {
		t.Fatalf("replied to non-command text: %+v", out.sends)
	}

	h.HandleMessage(context.Background(), sess, &kit.Message{ID: 3, ChatID: testGroup, Text: "/venue"})
	want, _ := content.Lookup("venue")
	if len(out.sends) != 1 || out.sends[0] != want {
		t.Fatalf("sends = %+v", out.sends)
	}
}

func TestStartCommandSendsWelcomeWithMenu(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{}
	h := NewHandlers(out, testGroup, logx.Nop())

	h.HandleMessage(context.Background(), &session{}, &kit.Message{ID: 1, ChatID: testGroup, Text: "/start"})

	if len(out.sends) != 1 || out.sends[0] != content.Welcome {
		t.Fatalf("sends = %+v", out.sends)
	}
	if !out.sendMenus[0] {
		t.Fatal("welcome sent without menu")
	}
}

func TestCommandWithBotSuffix(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{}
	h := NewHandlers(out, testGroup, logx.Nop())

	h.HandleMessage(context.Background(), &session{}, &kit.Message{ID: 1, ChatID: testGroup, Text: "/Contact@weddingbot"})
	want, _ := content.Lookup("contact")
	if len(out.sends) != 1 || out.sends[0] != want {
		t.Fatalf("sends = %+v", out.sends)
	}
}

func TestMembershipMilestone(t *testing.T) {
	t.Parallel()
	out := &fakeOutbox{}
	h := NewHandlers(out, testGroup, logx.Nop())
	sess := &session{}
	ctx := context.Background()

	// 24 humans join, with the occasional bot that must not count.
	for i := 0; i < 24; i++ {
		joined := []kit.Member{{ID: int64(i), Name: "Guest"}}
		if i%5 == 0 {
			joined = append(joined, kit.Member{ID: int64(1000 + i), Name: "Helper", IsBot: true})
		}
		h.HandleMessage(ctx, sess, &kit.Message{ID: i, ChatID: testGroup, Joined: joined})
	}
	if len(out.sends) != 0 {
		t.Fatalf("broadcast before milestone: %+v", out.sends)
	}

	// The 25th human triggers exactly one broadcast.
	h.HandleMessage(ctx, sess, &kit.Message{ID: 99, ChatID: testGroup, Joined: []kit.Member{{ID: 25, Name: "Guest"}}})
	if len(out.sends) != 1 || out.sends[0] != content.MilestoneWelcome {
		t.Fatalf("sends = %+v", out.sends)
	}
	if !out.sendMenus[0] {
		t.Fatal("milestone welcome sent without menu")
	}
	if sess.members != 25 {
		t.Fatalf("members = %d, want 25", sess.members)
	}
}
