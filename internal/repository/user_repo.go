package repository

import (
	"context"
	"errors"

	"earnclub/internal/domain"
	"earnclub/internal/referral"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPhoneTaken = errors.New("phone already registered")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, phone, COALESCE(name, ''), password_hash, role, referral_code, referred_by,
	       balance, earnings_balance, referral_balance, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Phone, &u.Name, &u.PasswordHash, &u.Role, &u.ReferralCode, &u.ReferredBy,
		&u.Balance, &u.EarningsBalance, &u.ReferralBalance, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID, nil if absent
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByPhone retrieves a user by phone number, nil if absent
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	return scanUser(row)
}

// GetByReferralCode retrieves a user by referral code, nil if absent
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	return scanUser(row)
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (phone, name, password_hash, role, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Phone, u.Name, u.PasswordHash, u.Role, u.ReferralCode, u.ReferredBy).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_phone_key") {
			return ErrPhoneTaken
		}
		return err
	}
	return nil
}

// Upline returns the referral-graph slice of a user for the commission
// engine. Implements referral.UserSource.
func (r *UserRepository) Upline(ctx context.Context, userID int64) (*referral.Node, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, referred_by, role FROM users WHERE id = $1`, userID)

	var n referral.Node
	if err := row.Scan(&n.ID, &n.ReferredBy, &n.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// CodeExists reports whether a referral code is taken. Implements
// referral.CodeChecker.
func (r *UserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)`, code).Scan(&exists)
	return exists, err
}

// SetRole changes a user's role
func (r *UserRepository) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, userID, role)
	return err
}

// CountDirectReferrals returns how many users someone referred directly
func (r *UserRepository) CountDirectReferrals(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE referred_by = $1`, userID).Scan(&n)
	return n, err
}

// ListDirectReferrals returns a user's direct downline
func (r *UserRepository) ListDirectReferrals(ctx context.Context, userID int64, limit int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE referred_by = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Phone, &u.Name, &u.PasswordHash, &u.Role, &u.ReferralCode, &u.ReferredBy,
			&u.Balance, &u.EarningsBalance, &u.ReferralBalance, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}

// List returns users for the admin panel, newest first
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Phone, &u.Name, &u.PasswordHash, &u.Role, &u.ReferralCode, &u.ReferredBy,
			&u.Balance, &u.EarningsBalance, &u.ReferralBalance, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}
