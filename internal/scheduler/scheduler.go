package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	"WatchDesk/internal/cache"
	"WatchDesk/internal/model"
	"WatchDesk/internal/notifier"
	"WatchDesk/internal/refresh"
	"WatchDesk/internal/watchlist"
)

// Scheduler runs periodic watchlist refreshes and answers chat commands.
type Scheduler struct {
	cron      *cron.Cron
	refresher *refresh.Refresher
	cache     *cache.Cache
	watchlist *watchlist.Watchlist
	notifier  notifier.Notifier
	logger    *slog.Logger
	ctx       context.Context
}

// New creates a Scheduler. ctx bounds every job it runs.
func New(ctx context.Context, r *refresh.Refresher, c *cache.Cache, wl *watchlist.Watchlist, n notifier.Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		refresher: r,
		cache:     c,
		watchlist: wl,
		notifier:  n,
		logger:    logger,
		ctx:       ctx,
	}
}

// RegisterAll registers the watchlist refresh job. An empty spec disables
// periodic refresh.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if refreshCron == "" {
		s.logger.Info("periodic refresh disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow refreshes the whole watchlist immediately (manual trigger / run on start).
func (s *Scheduler) RunNow() model.AggregateOutcome {
	return s.refreshWatchlist(s.ctx)
}

func (s *Scheduler) refreshTask() {
	s.refreshWatchlist(s.ctx)
}

func (s *Scheduler) refreshWatchlist(ctx context.Context) model.AggregateOutcome {
	symbols := s.watchlist.Symbols()
	s.logger.Info("refreshing watchlist", "symbols", len(symbols))

	agg := s.refresher.RefreshAll(ctx, symbols)
	if msg := refresh.StatusMessage(agg); msg != "" {
		s.trySend(ctx, msg)
	}
	return agg
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(fields[0])
	// Telegram appends the bot name in groups: /refresh@WatchDeskBot
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	arg := ""
	if len(fields) > 1 {
		arg = model.NormalizeSymbol(fields[1])
	}

	switch cmd {
	case "/refresh":
		if arg == "" {
			return notifier.FormatBatchReport(s.refreshWatchlist(ctx))
		}
		out := s.refresher.RefreshSymbol(ctx, arg)
		reply := notifier.FormatSymbolSummary(s.cache.Get(arg))
		if out.Failed() {
			reply += "\n" + refresh.PartialFailureMessage
		}
		return reply
	case "/watchlist":
		symbols := s.watchlist.Symbols()
		entries := make([]model.CacheEntry, 0, len(symbols))
		for _, sym := range symbols {
			entries = append(entries, s.cache.Get(sym))
		}
		return notifier.FormatWatchlist(entries)
	case "/add":
		if arg == "" {
			return "Usage: /add SYMBOL"
		}
		if !s.watchlist.Add(arg) {
			return fmt.Sprintf("%s is already on the watchlist", arg)
		}
		return fmt.Sprintf("Added %s. Use /refresh %s to load data.", arg, arg)
	case "/remove":
		if arg == "" {
			return "Usage: /remove SYMBOL"
		}
		if !s.watchlist.Remove(arg) {
			return fmt.Sprintf("%s is not on the watchlist", arg)
		}
		return fmt.Sprintf("Removed %s", arg)
	case "/news":
		if arg == "" {
			return "Usage: /news SYMBOL"
		}
		return notifier.FormatNews(s.cache.Get(arg), 5)
	case "/mspr":
		if arg == "" {
			return "Usage: /mspr SYMBOL"
		}
		return notifier.FormatSymbolSummary(s.cache.Get(arg))
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /refresh [SYMBOL]\n" +
	"• /watchlist\n" +
	"• /add SYMBOL\n" +
	"• /remove SYMBOL\n" +
	"• /news SYMBOL\n" +
	"• /mspr SYMBOL"

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.logger.Error("send notification", "err", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
