package repository

import (
	"context"
	"errors"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentRepository struct {
	db *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{db: db}
}

// ListActive returns usable agent numbers grouped by insertion order
func (r *AgentRepository) ListActive(ctx context.Context) ([]*domain.Agent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, provider, number, active, created_at FROM agents WHERE active ORDER BY provider, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.Provider, &a.Number, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}

// GetByID retrieves an agent, nil if absent
func (r *AgentRepository) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, provider, number, active, created_at FROM agents WHERE id = $1`, id)

	var a domain.Agent
	if err := row.Scan(&a.ID, &a.Provider, &a.Number, &a.Active, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an agent number
func (r *AgentRepository) Create(ctx context.Context, a *domain.Agent) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO agents (provider, number, active) VALUES ($1, $2, $3) RETURNING id, created_at`,
		a.Provider, a.Number, a.Active).Scan(&a.ID, &a.CreatedAt)
}

// SetActive toggles an agent number
func (r *AgentRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE agents SET active = $2 WHERE id = $1`, id, active)
	return err
}
