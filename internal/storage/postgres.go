package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/spendbot/internal/logger"
)

// PostgresStore is the production Store backed by sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open sqlx connection.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// UpsertProfile inserts the profile or replaces name and contact of an existing one.
func (s *PostgresStore) UpsertProfile(ctx context.Context, p Profile) error {
	const q = `
		INSERT INTO profiles (user_id, display_name, contact_address)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    contact_address = EXCLUDED.contact_address,
		    updated_at = now()`
	start := time.Now()
	_, err := s.db.ExecContext(ctx, q, p.UserID, p.DisplayName, p.Contact)
	logger.DB.Debug("profile upsert",
		slog.String("event", "db.profiles.upsert"),
		slog.Int64("user_id", p.UserID),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// UpdateBudget sets the monthly budget for an existing profile.
func (s *PostgresStore) UpdateBudget(ctx context.Context, userID, budget int64) error {
	const q = `UPDATE profiles SET budget = $2, updated_at = now() WHERE user_id = $1`
	res, err := s.db.ExecContext(ctx, q, userID, budget)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

// UpdateReportTime sets the daily report time for a profile.
func (s *PostgresStore) UpdateReportTime(ctx context.Context, userID int64, hhmm string) error {
	const q = `UPDATE profiles SET report_time = $2, updated_at = now() WHERE user_id = $1`
	res, err := s.db.ExecContext(ctx, q, userID, hhmm)
	if err != nil {
		return fmt.Errorf("update report time: %w", err)
	}
	return requireRow(res)
}

// GetProfile returns the profile or ErrProfileNotFound.
func (s *PostgresStore) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	const q = `SELECT user_id, display_name, contact_address, budget, report_time, created_at, updated_at
		FROM profiles WHERE user_id = $1`
	var p Profile
	if err := s.db.GetContext(ctx, &p, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// InsertExpense records one confirmed purchase entry.
func (s *PostgresStore) InsertExpense(ctx context.Context, e Expense) error {
	const q = `INSERT INTO expenses (user_id, item_label, amount) VALUES ($1, $2, $3)`
	start := time.Now()
	_, err := s.db.ExecContext(ctx, q, e.UserID, e.ItemLabel, e.Amount)
	logger.DB.Debug("expense insert",
		slog.String("event", "db.expenses.insert"),
		slog.Int64("user_id", e.UserID),
		slog.Int64("amount", e.Amount),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// SumExpensesSince totals expense amounts created at or after since.
func (s *PostgresStore) SumExpensesSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1 AND created_at >= $2`
	var total int64
	if err := s.db.GetContext(ctx, &total, q, userID, since); err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// ExpensesBetween lists entries created in [from, to), oldest first.
func (s *PostgresStore) ExpensesBetween(ctx context.Context, userID int64, from, to time.Time) ([]Expense, error) {
	const q = `SELECT id, user_id, item_label, amount, created_at
		FROM expenses
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC, id ASC`
	var list []Expense
	if err := s.db.SelectContext(ctx, &list, q, userID, from, to); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// ProfilesWithSchedule lists every profile that has a report time set.
func (s *PostgresStore) ProfilesWithSchedule(ctx context.Context) ([]Profile, error) {
	const q = `SELECT user_id, display_name, contact_address, budget, report_time, created_at, updated_at
		FROM profiles WHERE report_time IS NOT NULL AND report_time <> ''`
	var list []Profile
	if err := s.db.SelectContext(ctx, &list, q); err != nil {
		return nil, fmt.Errorf("list scheduled profiles: %w", err)
	}
	return list, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
