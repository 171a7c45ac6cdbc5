package schedule

import (
	"context"
	"time"

	"weddingbot/internal/notify"
	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

// Sender is the slice of the notifier the dispatcher needs.
type Sender interface {
	Send(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) notify.Outcome
}

// Dispatcher sends due announcements to the group. Ticks run synchronously on
// the poll loop, so there is exactly one dispatch path mutating the book.
type Dispatcher struct {
	book *Book
	out  Sender
	to   kit.ChatTarget
	log  logx.Logger
}

func NewDispatcher(book *Book, out Sender, to kit.ChatTarget, log logx.Logger) *Dispatcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Dispatcher{book: book, out: out, to: to, log: log}
}

// Tick sends every announcement due at now and removes each from the book
// whether or not its send succeeded. Retrying a systemically failing
// transport would only turn one missed announcement into a resend storm, so
// dispatch is deliberately at-most-once per trigger. Returns the number of
// entries dispatched.
func (d *Dispatcher) Tick(ctx context.Context, now time.Time) int {
	due := d.book.Due(now)
	if len(due) == 0 {
		return 0
	}

	for _, a := range due {
		res := d.out.Send(ctx, d.to, a.Body, &kit.SendOptions{WithMenu: a.WithMenu})
		if res.OK {
			d.log.Info("announcement sent", logx.Time("at", a.At))
		} else {
			d.log.Warn("announcement not delivered; dropping", logx.Time("at", a.At), logx.Err(res.Err))
		}
	}

	d.book.Remove(ctx, due)
	return len(due)
}
