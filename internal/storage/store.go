package storage

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound is returned when a user has not completed registration.
var ErrProfileNotFound = errors.New("storage: profile not found")

// Store persists profiles and expense entries. The bot engine and the
// scheduler receive it as an explicit dependency so tests can substitute
// the in-memory implementation.
type Store interface {
	// UpsertProfile inserts the profile or replaces name and contact of an
	// existing one, keeping budget and report time untouched.
	UpsertProfile(ctx context.Context, p Profile) error
	// UpdateBudget sets the monthly budget for an existing profile.
	UpdateBudget(ctx context.Context, userID, budget int64) error
	// UpdateReportTime sets the daily report time (HH:MM) for a profile.
	UpdateReportTime(ctx context.Context, userID int64, hhmm string) error
	// GetProfile returns the profile or ErrProfileNotFound.
	GetProfile(ctx context.Context, userID int64) (Profile, error)

	// InsertExpense records one confirmed purchase entry.
	InsertExpense(ctx context.Context, e Expense) error
	// SumExpensesSince totals expense amounts created at or after since.
	SumExpensesSince(ctx context.Context, userID int64, since time.Time) (int64, error)
	// ExpensesBetween lists entries created in [from, to), oldest first.
	ExpensesBetween(ctx context.Context, userID int64, from, to time.Time) ([]Expense, error)

	// ProfilesWithSchedule lists every profile that has a report time set.
	ProfilesWithSchedule(ctx context.Context) ([]Profile, error)
}

// MonthStart returns the beginning of the calendar month containing now,
// in the given location. Remaining-budget totals are recomputed from this
// boundary on every read.
func MonthStart(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc)
}

// DayWindow returns the [from, to) bounds of the calendar day containing
// now, in the given location.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	n := now.In(loc)
	from := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
