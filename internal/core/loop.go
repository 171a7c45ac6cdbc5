package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"weddingbot/internal/schedule"
	kit "weddingbot/internal/transport"
	logx "weddingbot/pkg/logx"
)

// State is the poll loop's lifecycle state.
type State int32

const (
	StateRunning State = iota
	StateDegraded
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDegraded:
		return "degraded"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// session holds the loop's process-wide mutable counters. Both reset on
// restart: the remote API only buffers updates forward of the last fetch, and
// the member count is a best-effort milestone tracker.
type session struct {
	cursor  int64
	members int
}

type LoopConfig struct {
	PollTimeout time.Duration
	IdleSleep   time.Duration
	ErrorPause  time.Duration
}

// Loop drives everything on one goroutine: poll, dispatch updates, tick the
// due-message dispatcher, sleep. It only exits on context cancellation; every
// other failure degrades, backs off, and resumes.
type Loop struct {
	api      kit.BotAPI
	handlers *Handlers
	disp     *schedule.Dispatcher
	cfg      LoopConfig
	log      logx.Logger

	state atomic.Int32
	sess  session
}

func NewLoop(api kit.BotAPI, handlers *Handlers, disp *schedule.Dispatcher, cfg LoopConfig, log logx.Logger) *Loop {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = time.Second
	}
	if cfg.ErrorPause <= 0 {
		cfg.ErrorPause = 5 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Loop{api: api, handlers: handlers, disp: disp, cfg: cfg, log: log}
}

func (l *Loop) State() State { return State(l.state.Load()) }

func (l *Loop) setState(s State) { l.state.Store(int32(s)) }

// Cursor reports the last consumed update id.
func (l *Loop) Cursor() int64 { return l.sess.cursor }

// Run blocks until ctx is cancelled, then transitions to Stopped and returns.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.setState(StateStopped)
		l.log.Info("poll loop stopped", logx.Int64("cursor", l.sess.cursor))
	}()

	l.setState(StateRunning)
	l.log.Info("poll loop started")

	for {
		if ctx.Err() != nil {
			return
		}

		if err := l.cycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			l.setState(StateDegraded)
			l.log.Error("poll cycle failed; backing off", logx.Err(err), logx.Duration("pause", l.cfg.ErrorPause))
			if !sleepCtx(ctx, l.cfg.ErrorPause) {
				return
			}
			l.setState(StateRunning)
			continue
		}

		if !sleepCtx(ctx, l.cfg.IdleSleep) {
			return
		}
	}
}

// cycle is one poll/dispatch/tick pass. A panic anywhere inside is converted
// to an error so the loop's backoff-and-resume contract holds.
func (l *Loop) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in poll cycle: %v", r)
		}
	}()

	updates, err := l.api.Poll(ctx, l.sess.cursor, l.cfg.PollTimeout)
	if err != nil {
		return err
	}

	for _, u := range updates {
		// The cursor advances before dispatch: a failing handler must not
		// cause the update to be fetched again.
		if u.ID > l.sess.cursor {
			l.sess.cursor = u.ID
		}
		switch u.Kind {
		case kit.UpdateCallback:
			l.handlers.HandleCallback(ctx, u.Callback)
		case kit.UpdateMessage:
			l.handlers.HandleMessage(ctx, &l.sess, u.Message)
		}
	}

	l.disp.Tick(ctx, time.Now())
	return nil
}

// sleepCtx sleeps d unless ctx is cancelled first; reports whether the full
// sleep elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
