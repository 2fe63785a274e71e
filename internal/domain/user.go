package domain

import "time"

// Role determines which commission overrides a user can earn and what
// they are allowed to do in the admin panel.
type Role string

const (
	RoleUser            Role = "user"
	RoleAreaManager     Role = "area_manager"
	RoleRegionalManager Role = "regional_manager"
	RoleAdmin           Role = "admin"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Phone        string    `db:"phone" json:"phone"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	ReferralCode string    `db:"referral_code" json:"referral_code"`
	ReferredBy   *int64    `db:"referred_by" json:"referred_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Balance is deposited money, EarningsBalance is task income,
	// ReferralBalance is commission income. Kept separate so each can
	// be reported and withdrawn on its own terms.
	Balance         float64 `db:"balance" json:"balance"`
	EarningsBalance float64 `db:"earnings_balance" json:"earnings_balance"`
	ReferralBalance float64 `db:"referral_balance" json:"referral_balance"`
}
