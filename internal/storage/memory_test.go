package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertProfileKeepsBudgetAndSchedule(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertProfile(ctx, Profile{UserID: 1, DisplayName: "Budi", Contact: "a@b.c"}))
	require.NoError(t, s.UpdateBudget(ctx, 1, 500000))
	require.NoError(t, s.UpdateReportTime(ctx, 1, "21:00"))

	require.NoError(t, s.UpsertProfile(ctx, Profile{UserID: 1, DisplayName: "Budi S", Contact: "x@y.z"}))

	p, err := s.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Budi S", p.DisplayName)
	assert.Equal(t, "x@y.z", p.Contact)
	assert.Equal(t, int64(500000), p.Budget)
	require.True(t, p.HasSchedule())
	assert.Equal(t, "21:00", *p.ReportTime)
}

func TestUpdateMissingProfile(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateBudget(ctx, 9, 100), ErrProfileNotFound)
	assert.ErrorIs(t, s.UpdateReportTime(ctx, 9, "21:00"), ErrProfileNotFound)
	_, err := s.GetProfile(ctx, 9)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestExpenseWindows(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	entries := []Expense{
		{UserID: 1, ItemLabel: "old", Amount: 100, CreatedAt: base.AddDate(0, 0, -2)},
		{UserID: 1, ItemLabel: "snack", Amount: 15000, CreatedAt: base},
		{UserID: 1, ItemLabel: "drink", Amount: 5000, CreatedAt: base.Add(time.Hour)},
		{UserID: 2, ItemLabel: "other user", Amount: 999, CreatedAt: base},
	}
	for _, e := range entries {
		require.NoError(t, s.InsertExpense(ctx, e))
	}

	from, to := DayWindow(base, time.UTC)
	list, err := s.ExpensesBetween(ctx, 1, from, to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "snack", list[0].ItemLabel)
	assert.Equal(t, "drink", list[1].ItemLabel)

	total, err := s.SumExpensesSince(ctx, 1, from)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), total)

	total, err = s.SumExpensesSince(ctx, 1, MonthStart(base, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(20100), total)
}

func TestProfilesWithSchedule(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertProfile(ctx, Profile{UserID: 1}))
	require.NoError(t, s.UpsertProfile(ctx, Profile{UserID: 2}))
	require.NoError(t, s.UpdateReportTime(ctx, 2, "07:45"))

	list, err := s.ProfilesWithSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].UserID)
}

func TestDayWindowRespectsLocation(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 01:30 in Jakarta is still the previous day in UTC; the window must
	// follow the reference zone, not the server's.
	at := time.Date(2025, 3, 10, 1, 30, 0, 0, jakarta)
	from, to := DayWindow(at, jakarta)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta), from)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, jakarta), to)
}

func TestMonthStart(t *testing.T) {
	at := time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), MonthStart(at, time.UTC))
}
