package domain

import "time"

// Provider is a mobile-money channel a deposit can arrive through.
type Provider string

const (
	ProviderBkash   Provider = "bkash"
	ProviderNagad   Provider = "nagad"
	ProviderBinance Provider = "binance"
)

// ValidProvider reports whether p is a known payment channel.
func ValidProvider(p Provider) bool {
	switch p {
	case ProviderBkash, ProviderNagad, ProviderBinance:
		return true
	}
	return false
}

// DepositStatus represents deposit processing status
type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

// Deposit is a user-submitted claim that money was sent to one of the
// platform's agent numbers. An admin approves or rejects it; approval
// credits the balance and triggers commission distribution.
type Deposit struct {
	ID           int64         `db:"id" json:"id"`
	UserID       int64         `db:"user_id" json:"user_id"`
	Provider     Provider      `db:"provider" json:"provider"`
	AgentNumber  string        `db:"agent_number" json:"agent_number"`
	SenderNumber string        `db:"sender_number" json:"sender_number"`
	TrxID        string        `db:"trx_id" json:"trx_id"`
	Amount       float64       `db:"amount" json:"amount"`
	Status       DepositStatus `db:"status" json:"status"`
	AdminNote    string        `db:"admin_note" json:"admin_note,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	ReviewedAt   *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// WithdrawalStatus represents withdrawal processing status
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a payout request. The amount is debited when the
// request is created; rejection refunds it.
type Withdrawal struct {
	ID            int64            `db:"id" json:"id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	Provider      Provider         `db:"provider" json:"provider"`
	AccountNumber string           `db:"account_number" json:"account_number"`
	Amount        float64          `db:"amount" json:"amount"`
	Status        WithdrawalStatus `db:"status" json:"status"`
	AdminNote     string           `db:"admin_note" json:"admin_note,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	ReviewedAt    *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// Agent is a mobile-money number deposits are directed to. Numbers are
// rotated round-robin per provider.
type Agent struct {
	ID        int64     `db:"id" json:"id"`
	Provider  Provider  `db:"provider" json:"provider"`
	Number    string    `db:"number" json:"number"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
