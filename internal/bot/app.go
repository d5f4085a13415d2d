// Package bot wires the Telegram transport: command routing, the
// conversation engine over free-text input, and report delivery to chat
// and email.
package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"log/slog"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/spendbot/internal/config"
	"github.com/m3rciful/spendbot/internal/logger"
	"github.com/m3rciful/spendbot/internal/mail"
	"github.com/m3rciful/spendbot/internal/report"
	"github.com/m3rciful/spendbot/internal/service"
	"github.com/m3rciful/spendbot/internal/session"
)

// App composes the bot from its explicit dependencies.
type App struct {
	cfg      *config.Config
	svc      *service.Service
	sessions *session.Manager
	renderer *report.Renderer
	mailer   *mail.Mailer
	registry *Registry

	// OnStart runs once the bot is built, right before update processing
	// begins. The entrypoint hooks the report scheduler here so no job can
	// fire before the bot exists.
	OnStart func()

	bot *tele.Bot
}

// New constructs the App and registers its command set.
func New(cfg *config.Config, svc *service.Service, sessions *session.Manager, renderer *report.Renderer, mailer *mail.Mailer) *App {
	a := &App{
		cfg:      cfg,
		svc:      svc,
		sessions: sessions,
		renderer: renderer,
		mailer:   mailer,
		registry: NewRegistry(),
	}
	a.registerCommands()
	return a
}

// Run builds the Telegram bot and serves updates until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	poller := BuildPoller(PollerOptions{
		RunMode:                a.cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: a.cfg.Telegram.LongPollTimeoutSeconds,
		Webhook:                a.cfg.Webhook,
	})

	buildStart := time.Now()
	b, err := tele.NewBot(tele.Settings{
		Token:  a.cfg.Telegram.Token,
		Poller: poller,
		Client: BuildHTTPClient(),
	})
	if err != nil {
		return fmt.Errorf("bot initialization failed: %w", err)
	}
	a.bot = b

	logger.TG.Info("bot ready",
		slog.String("event", "mode"),
		slog.String("mode", a.cfg.Telegram.RunMode),
		slog.Duration("duration", logger.RoundMS(time.Since(buildStart))),
	)

	b.Use(RecoverMiddleware)
	b.Use(LoggerMiddleware)
	if interval := a.cfg.RateLimit.Interval(); interval > 0 {
		b.Use(RateLimitMiddleware(RateLimitOptions{Interval: interval}))
	}

	for name, cmd := range a.registry.Commands() {
		b.Handle(name, cmd.Handler)
	}
	b.Handle(tele.OnText, a.handleText)

	if err := b.SetCommands(a.registry.List()); err != nil {
		logger.TG.Warn("set commands failed",
			slog.String("event", "tg.wire"),
			slog.String("err", err.Error()),
		)
	}

	if a.OnStart != nil {
		a.OnStart()
	}

	runDone := make(chan struct{})
	go func() {
		b.Start()
		close(runDone)
	}()

	select {
	case <-ctx.Done():
		b.Stop()
		<-runDone
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-runDone:
		return nil
	}
}

// SendDailyReport implements the scheduler's Reporter: build, render, and
// deliver one user's report. A day without expenses is skipped silently.
func (a *App) SendDailyReport(ctx context.Context, userID int64) error {
	rep, err := a.svc.BuildDailyReport(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoExpenses) {
			logger.SCHED.Debug("no expenses, skipping",
				slog.String("event", "scheduler.skip"),
				slog.Int64("user_id", userID),
			)
			return nil
		}
		return err
	}
	return a.deliver(rep, &tele.User{ID: userID})
}

// deliver renders the report and sends it to chat first, then email.
// The email leg never blocks or rolls back the chat delivery.
func (a *App) deliver(rep service.DailyReport, to tele.Recipient) error {
	if a.bot == nil {
		return fmt.Errorf("deliver report for %d: bot is not running", rep.Profile.UserID)
	}

	path, err := a.renderer.Render(rep)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: fmt.Sprintf("Trade_Conf_%s.pdf", rep.Profile.DisplayName),
		Caption:  msgReportCaption,
		MIME:     "application/pdf",
	}
	if _, err := a.bot.Send(to, doc); err != nil {
		return fmt.Errorf("send report document: %w", err)
	}

	if a.mailer.Enabled() && rep.Profile.Contact != "" {
		if err := a.mailer.SendReport(rep.Profile.Contact, rep.Profile.DisplayName, path); err != nil {
			logger.MAIL.Warn("report email failed",
				slog.String("event", "mail.report"),
				slog.Int64("user_id", rep.Profile.UserID),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}

// contextOf derives a context carrying the update's correlation id, which
// the service layer stamps onto its log lines.
func contextOf(c tele.Context) context.Context {
	upd := c.Update()
	chatID, userID := int64(0), int64(0)
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	return logger.WithRID(context.Background(), logger.BuildRID(upd.ID, chatID, userID))
}
