// Package service implements the domain operations shared by the
// conversation handlers and the report scheduler: profile registration,
// budget and schedule setup, expense entry, and daily report assembly.
package service

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/m3rciful/spendbot/internal/logger"
	"github.com/m3rciful/spendbot/internal/session"
	"github.com/m3rciful/spendbot/internal/storage"
)

// Jobs is the scheduler capability the service needs: replace the daily
// report trigger for one user.
type Jobs interface {
	Replace(userID int64, hhmm string) error
}

// DailyReport aggregates everything the renderer and the notifier need for
// one user's day.
type DailyReport struct {
	Profile   storage.Profile
	Expenses  []storage.Expense
	Total     int64
	Remaining int64
	Day       time.Time
}

// Service wires the store, the session manager's per-user guard, and the
// scheduler into the domain operations.
type Service struct {
	store    storage.Store
	sessions *session.Manager
	jobs     Jobs
	loc      *time.Location

	now func() time.Time
}

// New constructs a Service. jobs may be nil until the scheduler is attached.
func New(store storage.Store, sessions *session.Manager, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:    store,
		sessions: sessions,
		loc:      loc,
		now:      time.Now,
	}
}

// AttachJobs wires the scheduler after construction. The scheduler itself
// needs the service to build reports, so the two are linked in two steps.
func (s *Service) AttachJobs(jobs Jobs) {
	s.jobs = jobs
}

// Location returns the fixed reference time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Register upserts the user profile collected by the registration dialogue.
func (s *Service) Register(ctx context.Context, userID int64, name, contact string) error {
	release := s.sessions.Guard(userID)
	defer release()

	err := s.store.UpsertProfile(ctx, storage.Profile{
		UserID:      userID,
		DisplayName: name,
		Contact:     contact,
	})
	logger.SVC.Info("register",
		slog.String("event", "profile.register"),
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.Int64("user_id", userID),
		slog.String("status", logger.Status(err)),
	)
	if err != nil {
		return fmt.Errorf("register user %d: %w", userID, err)
	}
	return nil
}

// SetBudget persists the monthly budget for the user.
func (s *Service) SetBudget(ctx context.Context, userID, budget int64) error {
	release := s.sessions.Guard(userID)
	defer release()

	if err := s.store.UpdateBudget(ctx, userID, budget); err != nil {
		return fmt.Errorf("set budget for %d: %w", userID, err)
	}
	logger.SVC.Info("budget set",
		slog.String("event", "profile.budget"),
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.Int64("user_id", userID),
		slog.Int64("budget", budget),
	)
	return nil
}

// SetReportTime persists a validated HH:MM report time and swaps the user's
// daily job to the new fire time.
func (s *Service) SetReportTime(ctx context.Context, userID int64, hhmm string) error {
	release := s.sessions.Guard(userID)
	defer release()

	if err := s.store.UpdateReportTime(ctx, userID, hhmm); err != nil {
		return fmt.Errorf("set report time for %d: %w", userID, err)
	}
	if s.jobs != nil {
		if err := s.jobs.Replace(userID, hhmm); err != nil {
			return fmt.Errorf("replace report job for %d: %w", userID, err)
		}
	}
	logger.SVC.Info("report time set",
		slog.String("event", "profile.report_time"),
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.Int64("user_id", userID),
		slog.String("report_time", hhmm),
	)
	return nil
}

// AddExpense records a confirmed purchase entry and returns the remaining
// budget, recomputed fresh from the store. No cached running total is used.
func (s *Service) AddExpense(ctx context.Context, userID int64, label string, amount int64) (int64, error) {
	release := s.sessions.Guard(userID)
	defer release()

	if err := s.store.InsertExpense(ctx, storage.Expense{
		UserID:    userID,
		ItemLabel: label,
		Amount:    amount,
	}); err != nil {
		return 0, fmt.Errorf("add expense for %d: %w", userID, err)
	}

	remaining, err := s.remaining(ctx, userID)
	if err != nil {
		return 0, err
	}
	logger.SVC.Info("expense added",
		slog.String("event", "expense.add"),
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.Int64("user_id", userID),
		slog.Int64("amount", amount),
		slog.Int64("remaining", remaining),
	)
	return remaining, nil
}

// remaining computes budget minus the month-to-date total. Callers hold the
// user guard.
func (s *Service) remaining(ctx context.Context, userID int64) (int64, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load profile %d: %w", userID, err)
	}
	spent, err := s.store.SumExpensesSince(ctx, userID, storage.MonthStart(s.now(), s.loc))
	if err != nil {
		return 0, fmt.Errorf("total expenses %d: %w", userID, err)
	}
	return profile.Budget - spent, nil
}

// BuildDailyReport reads, under the user guard, everything needed for
// today's report. It returns ErrNoExpenses when the day has no entries so
// callers can skip or answer with a no-data message. Rendering and delivery
// must happen after this returns, outside the guard.
func (s *Service) BuildDailyReport(ctx context.Context, userID int64) (DailyReport, error) {
	release := s.sessions.Guard(userID)
	defer release()

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return DailyReport{}, fmt.Errorf("load profile %d: %w", userID, err)
	}

	from, to := storage.DayWindow(s.now(), s.loc)
	expenses, err := s.store.ExpensesBetween(ctx, userID, from, to)
	if err != nil {
		return DailyReport{}, fmt.Errorf("list today's expenses %d: %w", userID, err)
	}
	if len(expenses) == 0 {
		return DailyReport{}, ErrNoExpenses
	}

	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	spent, err := s.store.SumExpensesSince(ctx, userID, storage.MonthStart(s.now(), s.loc))
	if err != nil {
		return DailyReport{}, fmt.Errorf("total expenses %d: %w", userID, err)
	}

	return DailyReport{
		Profile:   profile,
		Expenses:  expenses,
		Total:     total,
		Remaining: profile.Budget - spent,
		Day:       from,
	}, nil
}

// ScheduledUsers lists profiles that need a daily job at process start.
func (s *Service) ScheduledUsers(ctx context.Context) ([]storage.Profile, error) {
	return s.store.ProfilesWithSchedule(ctx)
}
