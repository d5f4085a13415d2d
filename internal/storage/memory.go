package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
	expenses []Expense
	nextID   int64

	// FailWith, when set, is returned by every mutating call. Tests use it
	// to exercise store-failure paths.
	FailWith error
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[int64]Profile),
		nextID:   1,
	}
}

// UpsertProfile inserts the profile or replaces name and contact of an existing one.
func (s *MemoryStore) UpsertProfile(_ context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	now := time.Now()
	if existing, ok := s.profiles[p.UserID]; ok {
		existing.DisplayName = p.DisplayName
		existing.Contact = p.Contact
		existing.UpdatedAt = now
		s.profiles[p.UserID] = existing
		return nil
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	s.profiles[p.UserID] = p
	return nil
}

// UpdateBudget sets the monthly budget for an existing profile.
func (s *MemoryStore) UpdateBudget(_ context.Context, userID, budget int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	p, ok := s.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.Budget = budget
	p.UpdatedAt = time.Now()
	s.profiles[userID] = p
	return nil
}

// UpdateReportTime sets the daily report time for a profile.
func (s *MemoryStore) UpdateReportTime(_ context.Context, userID int64, hhmm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	p, ok := s.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.ReportTime = &hhmm
	p.UpdatedAt = time.Now()
	s.profiles[userID] = p
	return nil
}

// GetProfile returns the profile or ErrProfileNotFound.
func (s *MemoryStore) GetProfile(_ context.Context, userID int64) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

// InsertExpense records one confirmed purchase entry.
func (s *MemoryStore) InsertExpense(_ context.Context, e Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	e.ID = s.nextID
	s.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.expenses = append(s.expenses, e)
	return nil
}

// SumExpensesSince totals expense amounts created at or after since.
func (s *MemoryStore) SumExpensesSince(_ context.Context, userID int64, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.expenses {
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			total += e.Amount
		}
	}
	return total, nil
}

// ExpensesBetween lists entries created in [from, to), oldest first.
func (s *MemoryStore) ExpensesBetween(_ context.Context, userID int64, from, to time.Time) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []Expense
	for _, e := range s.expenses {
		if e.UserID == userID && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

// ProfilesWithSchedule lists every profile that has a report time set.
func (s *MemoryStore) ProfilesWithSchedule(_ context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []Profile
	for _, p := range s.profiles {
		if p.HasSchedule() {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })
	return list, nil
}

// ExpenseCount reports the number of stored entries. Test helper.
func (s *MemoryStore) ExpenseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expenses)
}
