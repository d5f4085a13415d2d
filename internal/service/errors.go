package service

import "errors"

var (
	// ErrBadAmount marks input that does not parse as a non-negative integer.
	// The dialogue re-prompts and stays in place; nothing is persisted.
	ErrBadAmount = errors.New("amount must be a non-negative integer")

	// ErrBadClock marks input that does not match HH:MM.
	ErrBadClock = errors.New("time must match HH:MM")

	// ErrNoExpenses indicates the report window holds no entries. A
	// scheduled fire skips silently on it; the manual report replies with
	// an explicit no-data message.
	ErrNoExpenses = errors.New("no expenses in report window")
)
