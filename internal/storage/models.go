package storage

import "time"

// Profile is a registered bot user together with their monthly budget and
// optional daily report time.
type Profile struct {
	UserID      int64     `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Contact     string    `db:"contact_address"`
	Budget      int64     `db:"budget"`
	ReportTime  *string   `db:"report_time"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// HasSchedule reports whether the profile carries a daily report time.
func (p Profile) HasSchedule() bool {
	return p.ReportTime != nil && *p.ReportTime != ""
}

// Expense is a single confirmed purchase entry. Entries are insert-only.
type Expense struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ItemLabel string    `db:"item_label"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}
