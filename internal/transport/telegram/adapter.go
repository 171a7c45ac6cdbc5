package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

type Config struct {
	Token       string
	PollTimeout time.Duration

	// Offline skips the getMe probe on construction (tests only).
	Offline bool
}

// Adapter speaks to the Telegram Bot API through telebot. Polling is done
// with an explicit getUpdates cursor instead of telebot's own poller so the
// caller owns the offset and the dispatch order.
type Adapter struct {
	cfg  Config
	log  logx.Logger
	bot  *tele.Bot
	menu *tele.ReplyMarkup
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Offline: cfg.Offline,
		// The client must outlive a full long-poll cycle.
		Client: &http.Client{Timeout: cfg.PollTimeout + 10*time.Second},
	})
	if err != nil {
		return nil, err
	}

	return &Adapter{cfg: cfg, log: log, bot: b, menu: infoMenu()}, nil
}

// infoMenu is the standard six-button inline keyboard attached to welcome
// and day-of messages.
func infoMenu() *tele.ReplyMarkup {
	row := func(a, b tele.InlineButton) []tele.InlineButton { return []tele.InlineButton{a, b} }
	btn := func(text, data string) tele.InlineButton {
		return tele.InlineButton{Text: text, Data: data}
	}
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			row(btn("\U0001F3DB️ Venue Info", "venue"), btn("\U0001F4C5 Schedule", "schedule")),
			row(btn("\U0001F687 Transport", "transport"), btn("\U0001F37D️ Menu", "menu")),
			row(btn("\U0001F4DE Contacts", "contact"), btn("ℹ️ Important Note", "help")),
		},
	}
}

// Poll fetches updates newer than cursor, blocking up to timeout. A network
// timeout ("no new updates") is an empty batch, not an error.
func (a *Adapter) Poll(ctx context.Context, cursor int64, timeout time.Duration) ([]kit.Update, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = a.cfg.PollTimeout
	}

	payload := map[string]any{
		"offset":          cursor + 1,
		"timeout":         int64(timeout / time.Second),
		"allowed_updates": []string{"message", "callback_query"},
	}

	data, err := a.bot.Raw("getUpdates", payload)
	if err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		return nil, err
	}

	var resp struct {
		Result []tele.Update `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	out := make([]kit.Update, 0, len(resp.Result))
	for _, u := range resp.Result {
		// Non-convertible updates stay in the batch so the caller's cursor
		// still advances past them.
		cu, _ := convertUpdate(u)
		out = append(out, cu)
	}
	return out, nil
}

func convertUpdate(u tele.Update) (kit.Update, bool) {
	switch {
	case u.Callback != nil:
		cb := u.Callback
		out := kit.Update{
			ID:   int64(u.ID),
			Kind: kit.UpdateCallback,
			Callback: &kit.Callback{
				ID:   cb.ID,
				Data: strings.TrimSpace(cb.Data),
			},
		}
		if cb.Sender != nil {
			out.Callback.FromID = cb.Sender.ID
			out.Callback.FromName = cb.Sender.FirstName
		}
		if cb.Message != nil && cb.Message.Chat != nil {
			out.Callback.ChatID = cb.Message.Chat.ID
		}
		return out, true

	case u.Message != nil:
		m := u.Message
		out := kit.Update{
			ID:   int64(u.ID),
			Kind: kit.UpdateMessage,
			Message: &kit.Message{
				ID:   m.ID,
				Text: m.Text,
			},
		}
		if m.Chat != nil {
			out.Message.ChatID = m.Chat.ID
		}
		if m.Sender != nil {
			out.Message.FromID = m.Sender.ID
			out.Message.FromName = m.Sender.FirstName
		}
		for _, j := range m.UsersJoined {
			out.Message.Joined = append(out.Message.Joined, kit.Member{
				ID:       j.ID,
				Name:     j.FirstName,
				Username: j.Username,
				IsBot:    j.IsBot,
			})
		}
		return out, true

	default:
		// Update kinds we did not ask for; still consumed by the cursor.
		return kit.Update{ID: int64(u.ID)}, false
	}
}

func (a *Adapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opt == nil {
		opt = &kit.SendOptions{}
	}

	sendOpt := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if opt.ReplyTo != 0 {
		sendOpt.ReplyTo = &tele.Message{ID: opt.ReplyTo, Chat: &tele.Chat{ID: to.ChatID}}
	}
	if opt.WithMenu {
		sendOpt.ReplyMarkup = a.menu
	}

	_, err := a.bot.Send(&tele.Chat{ID: to.ChatID}, text, sendOpt)
	return err
}

// callbackTextLimit is Telegram's cap on answerCallbackQuery text.
const callbackTextLimit = 200

func (a *Adapter) AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.bot.Respond(
		&tele.Callback{ID: callbackID},
		&tele.CallbackResponse{Text: truncateCallbackText(text), ShowAlert: alert},
	)
}

// truncateCallbackText caps popup text at callbackTextLimit characters,
// marking the cut with a trailing ellipsis.
func truncateCallbackText(s string) string {
	rs := []rune(s)
	if len(rs) <= callbackTextLimit {
		return s
	}
	return string(rs[:callbackTextLimit-3]) + "..."
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// telebot may flatten the transport error into its message.
	return strings.Contains(err.Error(), "Client.Timeout")
}
