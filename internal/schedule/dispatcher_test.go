package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"weddingbot/internal/notify"
	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

type fakeSender struct {
	sent []sentMsg
	fail bool
}

type sentMsg struct {
	to   kit.ChatTarget
	text string
	menu bool
}

func (f *fakeSender) Send(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) notify.Outcome {
	menu := opt != nil && opt.WithMenu
	f.sent = append(f.sent, sentMsg{to: to, text: text, menu: menu})
	if f.fail {
		return notify.Outcome{Err: errors.New("transport down")}
	}
	return notify.Outcome{OK: true}
}

func TestTickDispatchesDueAndRemoves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 9, 20, 8, 0, 0, 0, sgt)

	b := NewBook(ctx, nil, sgt, logx.Nop())
	b.Add(ctx, now.Add(-time.Second), "due now", true)
	b.Add(ctx, now.Add(time.Hour), "later", false)

	out := &fakeSender{}
	d := NewDispatcher(b, out, kit.ChatTarget{ChatID: -100}, logx.Nop())

	if n := d.Tick(ctx, now); n != 1 {
		t.Fatalf("first tick dispatched %d, want 1", n)
	}
	if len(out.sent) != 1 || out.sent[0].text != "due now" || !out.sent[0].menu {
		t.Fatalf("unexpected sends: %+v", out.sent)
	}
	if b.Len() != 1 {
		t.Fatalf("book len = %d, want 1", b.Len())
	}

	// Same now again: nothing left to do.
	if n := d.Tick(ctx, now); n != 0 {
		t.Fatalf("second tick dispatched %d, want 0", n)
	}
	if len(out.sent) != 1 {
		t.Fatalf("second tick sent: %+v", out.sent[1:])
	}
}

func TestTickRemovesEvenWhenSendFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 9, 20, 8, 0, 0, 0, sgt)

	st := &memStore{}
	b := NewBook(ctx, st, sgt, logx.Nop())
	b.Add(ctx, now.Add(-time.Minute*5), "one", false)
	b.Add(ctx, now.Add(-time.Minute*2), "two", false)

	out := &fakeSender{fail: true}
	d := NewDispatcher(b, out, kit.ChatTarget{ChatID: -100}, logx.Nop())

	if n := d.Tick(ctx, now); n != 2 {
		t.Fatalf("tick dispatched %d, want 2", n)
	}
	// At-most-once: failed sends are dropped, not retried.
	if b.Len() != 0 {
		t.Fatalf("book len = %d, want 0", b.Len())
	}
	if len(st.data) != 0 {
		t.Fatalf("persisted len = %d, want 0", len(st.data))
	}
	if n := d.Tick(ctx, now); n != 0 {
		t.Fatalf("retry happened: %d", n)
	}
}

func TestTickUntouchedWhenNothingDue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 9, 20, 8, 0, 0, 0, sgt)

	st := &memStore{}
	b := NewBook(ctx, st, sgt, logx.Nop())
	b.Add(ctx, now.Add(time.Hour), "later", false)
	saves := st.saves

	out := &fakeSender{}
	d := NewDispatcher(b, out, kit.ChatTarget{ChatID: -100}, logx.Nop())
	if n := d.Tick(ctx, now); n != 0 {
		t.Fatalf("dispatched %d, want 0", n)
	}
	if st.saves != saves {
		t.Fatal("idle tick persisted")
	}
}
