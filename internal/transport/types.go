package transport

import (
	"context"
	"time"
)

type UpdateKind string

const (
	UpdateMessage  UpdateKind = "message"
	UpdateCallback UpdateKind = "callback"
)

// Update is one inbound event from the chat platform. ID is the platform's
// monotonically increasing update identifier; the poll loop advances its
// cursor to it before dispatching.
type Update struct {
	ID       int64
	Kind     UpdateKind
	Message  *Message
	Callback *Callback
}

type Message struct {
	ID       int
	ChatID   int64
	FromID   int64
	FromName string
	Text     string

	// Joined lists members added to the chat by this message (if any).
	Joined []Member
}

type Member struct {
	ID       int64
	Name     string
	Username string
	IsBot    bool
}

type Callback struct {
	ID       string
	FromID   int64
	FromName string
	ChatID   int64
	Data     string
}

type ChatTarget struct {
	ChatID int64
}

type SendOptions struct {
	// ReplyTo makes the outgoing message an in-thread reply (0 = plain send).
	ReplyTo int
	// WithMenu attaches the standard inline info menu.
	WithMenu bool
}

// BotAPI is the outbound/inbound surface of the chat platform.
//
// Poll blocks up to timeout waiting for updates newer than cursor; a network
// timeout is reported as an empty batch, not an error.
type BotAPI interface {
	Poll(ctx context.Context, cursor int64, timeout time.Duration) ([]Update, error)
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) error
	AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error
}
