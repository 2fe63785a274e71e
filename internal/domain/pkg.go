package domain

import "time"

// Package is an investment tier a user can buy. The daily task reward
// and task quota come from the active package.
type Package struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	DailyReward float64   `db:"daily_reward" json:"daily_reward"`
	TasksPerDay int       `db:"tasks_per_day" json:"tasks_per_day"`
	DurationDays int      `db:"duration_days" json:"duration_days"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Investment is a user's purchase of a package.
type Investment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PackageID int64     `db:"package_id" json:"package_id"`
	Price     float64   `db:"price" json:"price"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Package *Package `db:"-" json:"package,omitempty"`
}

// Expired reports whether the investment window has passed.
func (i *Investment) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
