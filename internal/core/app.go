package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"weddingbot/internal/config"
	"weddingbot/internal/notify"
	"weddingbot/internal/schedule"
	"weddingbot/internal/storage"
	kit "weddingbot/internal/transport"
	"weddingbot/internal/transport/telegram"
	logx "weddingbot/pkg/logx"
)

// App wires the bot together and owns its lifecycle.
type App struct {
	cfgm *config.Manager
	cfg  *config.Config

	logs *logx.Service
	log  logx.Logger

	store storage.Store
	book  *schedule.Book
	disp  *schedule.Dispatcher
	out   *notify.Service
	loop  *Loop

	loc  *time.Location
	cron *cron.Cron

	runMu     sync.Mutex
	runCancel context.CancelFunc
	done      chan struct{}
}

func NewApp(cfgPath string) (*App, error) {
	bootLog := logx.NewConsole("INFO")

	cfgm := config.NewManager(cfgPath, bootLog)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.ConsoleLogging(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	loc, err := time.LoadLocation(cfg.Timezone())
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("schedule.timezone: %w", err)
	}

	adapter, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.PollTimeout(),
	}, logSvc.Logger().With(logx.String("comp", "telegram")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("telegram: %w", err)
	}

	store, err := storage.Open(storage.Config{
		Driver: cfg.StorageDriver(),
		Path:   cfg.StoragePath(),
	}, logSvc.Logger().With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	out := notify.New(adapter, notify.Config{
		RatePerSec:  cfg.SendRatePerSec(),
		SendTimeout: cfg.SendTimeout(),
	}, logSvc.Logger().With(logx.String("comp", "notify")))

	group := kit.ChatTarget{ChatID: cfg.Telegram.GroupChatID}

	book := schedule.NewBook(context.Background(), store, loc, logSvc.Logger().With(logx.String("comp", "schedule")))
	disp := schedule.NewDispatcher(book, out, group, logSvc.Logger().With(logx.String("comp", "dispatch")))
	handlers := NewHandlers(out, group.ChatID, logSvc.Logger().With(logx.String("comp", "handlers")))

	loop := NewLoop(adapter, handlers, disp, LoopConfig{
		PollTimeout: cfg.PollTimeout(),
		IdleSleep:   cfg.IdleSleep(),
		ErrorPause:  cfg.ErrorPause(),
	}, logSvc.Logger().With(logx.String("comp", "loop")))

	app := &App{
		cfgm:  cfgm,
		cfg:   cfg,
		logs:  logSvc,
		log:   log,
		store: store,
		book:  book,
		disp:  disp,
		out:   out,
		loop:  loop,
		loc:   loc,
	}

	// Only the logging section hot-applies; credentials and wiring are fixed
	// for the process lifetime.
	cfgm.OnChange(func(next *config.Config) {
		logSvc.Apply(logx.Config{
			Level:   next.Logging.Level,
			Console: next.ConsoleLogging(),
			File: logx.FileConfig{
				Enabled: next.Logging.File.Enabled,
				Path:    next.Logging.File.Path,
			},
		})
		log.Info("logging config applied", logx.String("level", next.Logging.Level))
	})

	return app, nil
}

// Book exposes the announcement book (scheduling API for operators/tests).
func (a *App) Book() *schedule.Book { return a.book }

// LoopState reports the poll loop state.
func (a *App) LoopState() State { return a.loop.State() }

func (a *App) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.done != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.runCancel = cancel
	a.done = make(chan struct{})

	// Seed the fixed reminders; idempotent across restarts.
	a.book.SeedReminders(runCtx)

	a.startRecurring(runCtx)

	go func() {
		_ = a.cfgm.Watch(runCtx)
	}()

	go func() {
		defer close(a.done)
		a.loop.Run(runCtx)
	}()

	a.log.Info("started",
		logx.Int64("group", a.cfg.Telegram.GroupChatID),
		logx.String("tz", a.loc.String()),
		logx.Int("pending_announcements", a.book.Len()),
	)
	return nil
}

// startRecurring registers the optional cron-driven group broadcasts.
func (a *App) startRecurring(ctx context.Context) {
	if len(a.cfg.Recurring) == 0 {
		return
	}
	c := cron.New(cron.WithLocation(a.loc))
	group := kit.ChatTarget{ChatID: a.cfg.Telegram.GroupChatID}
	clog := a.logs.Logger().With(logx.String("comp", "recurring"))

	added := 0
	for _, r := range a.cfg.Recurring {
		r := r
		_, err := c.AddFunc(r.Spec, func() {
			if ctx.Err() != nil {
				return
			}
			res := a.out.Send(ctx, group, r.Body, &kit.SendOptions{WithMenu: r.Menu})
			if res.OK {
				clog.Info("recurring broadcast sent", logx.String("spec", r.Spec))
			}
		})
		if err != nil {
			clog.Warn("invalid recurring spec; skipping", logx.String("spec", r.Spec), logx.Err(err))
			continue
		}
		added++
	}
	if added == 0 {
		return
	}
	c.Start()
	a.cron = c
	clog.Info("recurring broadcasts scheduled", logx.Int("count", added), logx.String("tz", a.loc.String()))
}

func (a *App) Stop(ctx context.Context) error {
	a.runMu.Lock()
	cancel := a.runCancel
	done := a.done
	a.runCancel = nil
	a.done = nil
	a.runMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	if a.cron != nil {
		<-a.cron.Stop().Done()
	}

	// The loop exits at the next poll timeout at the latest; don't hold
	// shutdown hostage to a long-poll that is still waiting.
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			a.log.Warn("stop timed out waiting for poll loop")
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("storage close failed", logx.Err(err))
		}
	}
	a.log.Info("stopped")
	return a.logs.Close()
}
