package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"log/slog"

	"github.com/m3rciful/spendbot/internal/bot"
	"github.com/m3rciful/spendbot/internal/config"
	"github.com/m3rciful/spendbot/internal/database"
	"github.com/m3rciful/spendbot/internal/health"
	"github.com/m3rciful/spendbot/internal/logger"
	"github.com/m3rciful/spendbot/internal/mail"
	"github.com/m3rciful/spendbot/internal/report"
	"github.com/m3rciful/spendbot/internal/scheduler"
	"github.com/m3rciful/spendbot/internal/service"
	"github.com/m3rciful/spendbot/internal/session"
	"github.com/m3rciful/spendbot/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("spendbot: %v", err)
	}
}

func run() error {
	startedAt := time.Now()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Profile: cfg.Logging.Profile,
		Dir:     cfg.Logging.Dir,
		File:    cfg.Logging.BotFile,
	}); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	loc := cfg.Location()
	store := storage.NewPostgresStore(db)
	sessions := session.NewManager()
	svc := service.New(store, sessions, loc)

	renderer := report.NewRenderer(cfg.Report.TmpDir)
	mailer := mail.NewMailer(cfg.Mail)
	app := bot.New(cfg, svc, sessions, renderer, mailer)

	sched := scheduler.New(loc, app)
	svc.AttachJobs(sched)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := sched.RehydrateAll(ctx, svc); err != nil {
		return err
	}
	// The cron runner starts only after the bot is built, so a job firing
	// during startup can never reach an unfinished App.
	app.OnStart = sched.Start
	defer sched.Stop()

	hs := health.NewServer(cfg.Health.Listen)
	hs.Start()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = hs.Shutdown(shutdownCtx)
	}()

	logger.L.Info("app ready",
		slog.String("component", "app"),
		slog.String("event", "ready"),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	return app.Run(ctx)
}
