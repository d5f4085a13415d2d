// Package scheduler maintains at most one recurring daily report job per
// user, consistent with the report time persisted on the user's profile.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"log/slog"

	"github.com/m3rciful/spendbot/internal/logger"
	"github.com/m3rciful/spendbot/internal/storage"
)

// Reporter generates and delivers one user's daily report. A day without
// expenses is not an error; the reporter skips it silently.
type Reporter interface {
	SendDailyReport(ctx context.Context, userID int64) error
}

// ProfileSource lists the profiles that carry a report time.
type ProfileSource interface {
	ScheduledUsers(ctx context.Context) ([]storage.Profile, error)
}

// Scheduler wraps a cron runner pinned to the reference time zone. Every
// user-supplied HH:MM is interpreted in that zone, never server-local.
type Scheduler struct {
	cron     *cron.Cron
	loc      *time.Location
	reporter Reporter

	mu      sync.Mutex
	entries map[int64]cron.EntryID
	gen     map[int64]uint64
}

// New constructs a stopped Scheduler; call Start to begin firing.
func New(loc *time.Location, reporter Reporter) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		loc:      loc,
		reporter: reporter,
		entries:  make(map[int64]cron.EntryID),
		gen:      make(map[int64]uint64),
	}
}

// Start launches the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.SCHED.Info("started",
		slog.String("event", "scheduler.start"),
		slog.String("tz", s.loc.String()),
	)
}

// Stop halts the runner and waits for in-flight fires to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.SCHED.Info("stopped", slog.String("event", "scheduler.stop"))
}

// Replace cancels any existing job for the user and registers a new daily
// trigger at hhmm. The generation counter guarantees that a cancelled job
// which is already queued to fire becomes a no-op instead of firing for the
// transition day.
func (s *Scheduler) Replace(userID int64, hhmm string) error {
	spec, err := cronSpec(hhmm)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[userID]; ok {
		s.cron.Remove(old)
		delete(s.entries, userID)
	}
	s.gen[userID]++
	myGen := s.gen[userID]

	id, err := s.cron.AddFunc(spec, func() { s.fire(userID, myGen) })
	if err != nil {
		return fmt.Errorf("schedule job for %d: %w", userID, err)
	}
	s.entries[userID] = id

	logger.SCHED.Info("job replaced",
		slog.String("event", "scheduler.replace"),
		slog.Int64("user_id", userID),
		slog.String("fire_time", hhmm),
	)
	return nil
}

// Remove cancels the user's job if one exists.
func (s *Scheduler) Remove(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.entries[userID]; ok {
		s.cron.Remove(old)
		delete(s.entries, userID)
		s.gen[userID]++
	}
}

// JobCount reports the number of active jobs.
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RehydrateAll registers one job per scheduled profile. Calling it again
// replaces rather than duplicates, so it is idempotent per user key. An
// empty profile set is a no-op.
func (s *Scheduler) RehydrateAll(ctx context.Context, src ProfileSource) error {
	profiles, err := src.ScheduledUsers(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate jobs: %w", err)
	}
	installed := 0
	for _, p := range profiles {
		if !p.HasSchedule() {
			continue
		}
		if err := s.Replace(p.UserID, *p.ReportTime); err != nil {
			logger.SCHED.Error("rehydrate job failed",
				slog.String("event", "scheduler.rehydrate"),
				slog.Int64("user_id", p.UserID),
				slog.String("err", err.Error()),
			)
			continue
		}
		installed++
	}
	logger.SCHED.Info("rehydrated",
		slog.String("event", "scheduler.rehydrate"),
		slog.Int("jobs", installed),
	)
	return nil
}

// fire runs one scheduled report. Failures are logged and never cancel
// future recurrences.
func (s *Scheduler) fire(userID int64, gen uint64) {
	s.mu.Lock()
	stale := s.gen[userID] != gen
	s.mu.Unlock()
	if stale {
		return
	}

	start := time.Now()
	err := s.reporter.SendDailyReport(context.Background(), userID)
	if err != nil {
		logger.SCHED.Error("fire failed",
			slog.String("event", "scheduler.fire"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return
	}
	logger.SCHED.Info("fired",
		slog.String("event", "scheduler.fire"),
		slog.Int64("user_id", userID),
		slog.Duration("duration", logger.Took(start)),
	)
}

// cronSpec converts HH:MM into a daily cron expression.
func cronSpec(hhmm string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid fire time %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid fire time %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid fire time %q", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
