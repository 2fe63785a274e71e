package repository

import (
	"context"
	"errors"
	"time"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{db: db}
}

// ListActive returns purchasable packages, cheapest first
func (r *PackageRepository) ListActive(ctx context.Context) ([]*domain.Package, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, daily_reward, tasks_per_day, duration_days, active, created_at
		FROM packages
		WHERE active
		ORDER BY price ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Package
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DailyReward, &p.TasksPerDay, &p.DurationDays, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// GetByID retrieves a package, nil if absent
func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, price, daily_reward, tasks_per_day, duration_days, active, created_at
		FROM packages
		WHERE id = $1
	`, id)

	var p domain.Package
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.DailyReward, &p.TasksPerDay, &p.DurationDays, &p.Active, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreateInvestment records a package purchase
func (r *PackageRepository) CreateInvestment(ctx context.Context, inv *domain.Investment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO investments (user_id, package_id, price, starts_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, inv.UserID, inv.PackageID, inv.Price, inv.StartsAt, inv.ExpiresAt).Scan(&inv.ID, &inv.CreatedAt)
}

// CreateInvestmentWithTx records a purchase inside an existing transaction
func (r *PackageRepository) CreateInvestmentWithTx(ctx context.Context, tx pgx.Tx, inv *domain.Investment) error {
	return tx.QueryRow(ctx, `
		INSERT INTO investments (user_id, package_id, price, starts_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, inv.UserID, inv.PackageID, inv.Price, inv.StartsAt, inv.ExpiresAt).Scan(&inv.ID, &inv.CreatedAt)
}

// GetActiveInvestment returns the user's current unexpired investment
// with its package, nil if none
func (r *PackageRepository) GetActiveInvestment(ctx context.Context, userID int64, now time.Time) (*domain.Investment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT i.id, i.user_id, i.package_id, i.price, i.starts_at, i.expires_at, i.created_at,
		       p.id, p.name, p.price, p.daily_reward, p.tasks_per_day, p.duration_days, p.active, p.created_at
		FROM investments i
		JOIN packages p ON p.id = i.package_id
		WHERE i.user_id = $1 AND i.expires_at > $2
		ORDER BY i.expires_at DESC
		LIMIT 1
	`, userID, now)

	var inv domain.Investment
	var p domain.Package
	if err := row.Scan(
		&inv.ID, &inv.UserID, &inv.PackageID, &inv.Price, &inv.StartsAt, &inv.ExpiresAt, &inv.CreatedAt,
		&p.ID, &p.Name, &p.Price, &p.DailyReward, &p.TasksPerDay, &p.DurationDays, &p.Active, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	inv.Package = &p
	return &inv, nil
}

// ListInvestments returns a user's purchase history, newest first
func (r *PackageRepository) ListInvestments(ctx context.Context, userID int64, limit int) ([]*domain.Investment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, package_id, price, starts_at, expires_at, created_at
		FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Investment
	for rows.Next() {
		var inv domain.Investment
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.PackageID, &inv.Price, &inv.StartsAt, &inv.ExpiresAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &inv)
	}
	return result, rows.Err()
}
