// Package notify is the outbound send path. Every call resolves to an
// Outcome instead of an error: delivery failures are diagnostic information
// for the caller, never something to propagate up and crash the loop.
package notify

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

// Outcome is the result of one outbound call. OK false means "not delivered,
// do not retry automatically".
type Outcome struct {
	OK  bool
	Err error
}

func success() Outcome          { return Outcome{OK: true} }
func failure(err error) Outcome { return Outcome{Err: err} }

type Config struct {
	RatePerSec  int
	SendTimeout time.Duration
}

type Service struct {
	api kit.BotAPI
	log logx.Logger
	lim *rate.Limiter

	sendTimeout time.Duration
}

func New(api kit.BotAPI, cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 20
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		api:         api,
		log:         log,
		lim:         rate.NewLimiter(rate.Limit(rps), rps),
		sendTimeout: timeout,
	}
}

// Send delivers one text message. Blocks on the rate limiter, then bounds the
// transport call with the send timeout.
func (s *Service) Send(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) Outcome {
	if err := s.lim.Wait(ctx); err != nil {
		return failure(err)
	}
	cctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.api.SendText(cctx, to, text, opt); err != nil {
		s.log.Warn("send failed", logx.Int64("chat_id", to.ChatID), logx.Err(err))
		return failure(err)
	}
	return success()
}

// Answer delivers one callback-query answer (ephemeral, user-scoped).
func (s *Service) Answer(ctx context.Context, callbackID, text string, alert bool) Outcome {
	if err := s.lim.Wait(ctx); err != nil {
		return failure(err)
	}
	cctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.api.AnswerCallback(cctx, callbackID, text, alert); err != nil {
		s.log.Warn("callback answer failed", logx.String("callback_id", callbackID), logx.Err(err))
		return failure(err)
	}
	return success()
}
