package core

import (
	"context"
	"strings"

	"weddingbot/internal/content"
	"weddingbot/internal/notify"
	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

// memberMilestone is how many non-bot joins trigger one unprompted welcome
// broadcast.
const memberMilestone = 25

// Outbox is the slice of the notifier the handlers need.
type Outbox interface {
	Send(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) notify.Outcome
	Answer(ctx context.Context, callbackID, text string, alert bool) notify.Outcome
}

// Handlers route classified updates. They consume delivery Outcomes and log;
// nothing here returns an error, so one failing update can never stall the
// cursor or the loop.
type Handlers struct {
	out   Outbox
	group int64
	log   logx.Logger
}

func NewHandlers(out Outbox, group int64, log logx.Logger) *Handlers {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Handlers{out: out, group: group, log: log}
}

// HandleCallback answers an inline-keyboard press with an ephemeral popup
// visible only to the pressing user. If the full answer fails, it retries
// once with a short acknowledgment: the fallback degrades content length,
// not delivery.
func (h *Handlers) HandleCallback(ctx context.Context, cb *kit.Callback) {
	if cb == nil {
		return
	}
	name := cb.FromName
	if name == "" {
		name = "Guest"
	}
	h.log.Info("button pressed", logx.String("topic", cb.Data), logx.String("from", name))

	text, ok := content.Lookup(cb.Data)
	if !ok {
		h.out.Answer(ctx, cb.ID, content.UnknownOption, false)
		return
	}
	if res := h.out.Answer(ctx, cb.ID, text, true); !res.OK {
		h.out.Answer(ctx, cb.ID, content.Ack(cb.Data), false)
	}
}

// HandleMessage processes group messages: membership joins first, then slash
// commands. Messages from any other chat are ignored entirely.
func (h *Handlers) HandleMessage(ctx context.Context, sess *session, m *kit.Message) {
	if m == nil || m.ChatID != h.group {
		return
	}
	h.handleJoins(ctx, sess, m)
	if m.Text != "" {
		h.handleCommand(ctx, m)
	}
}

func (h *Handlers) handleJoins(ctx context.Context, sess *session, m *kit.Message) {
	for _, mem := range m.Joined {
		if mem.IsBot {
			continue
		}
		sess.members++
		h.log.Info("member joined",
			logx.String("name", mem.Name),
			logx.String("username", mem.Username),
			logx.Int("total", sess.members),
		)
		if sess.members%memberMilestone == 0 {
			res := h.out.Send(ctx, kit.ChatTarget{ChatID: h.group}, content.MilestoneWelcome, &kit.SendOptions{WithMenu: true})
			if res.OK {
				h.log.Info("milestone welcome sent", logx.Int("members", sess.members))
			}
		}
	}
}

func (h *Handlers) handleCommand(ctx context.Context, m *kit.Message) {
	text := strings.ToLower(strings.TrimSpace(m.Text))
	if !strings.HasPrefix(text, "/") {
		return
	}
	cmd := strings.TrimPrefix(strings.Fields(text)[0], "/")
	// allow /venue@botname style
	cmd, _, _ = strings.Cut(cmd, "@")

	to := kit.ChatTarget{ChatID: m.ChatID}

	if cmd == "start" {
		h.out.Send(ctx, to, content.Welcome, &kit.SendOptions{ReplyTo: m.ID, WithMenu: true})
		h.log.Info("welcome sent", logx.String("to", m.FromName))
		return
	}
	if full, ok := content.Lookup(cmd); ok {
		h.out.Send(ctx, to, full, &kit.SendOptions{ReplyTo: m.ID})
		h.log.Info("command answered", logx.String("command", cmd), logx.String("from", m.FromName))
	}
}
