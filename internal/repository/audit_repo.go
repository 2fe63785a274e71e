package repository

import (
	"context"
	"encoding/json"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit entry
func (r *AuditRepository) Create(ctx context.Context, e *domain.AuditEntry) error {
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO audit_log (admin_id, action, object_type, object_id, meta)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.AdminID, e.Action, e.ObjectType, e.ObjectID, metaJSON,
	).Scan(&e.ID, &e.CreatedAt)
}

// List returns recent audit entries, newest first
func (r *AuditRepository) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, admin_id, action, object_type, object_id, meta, created_at
		 FROM audit_log
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.AuditEntry
	for rows.Next() {
		var (
			e        domain.AuditEntry
			metaJSON []byte
		)
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.ObjectType, &e.ObjectID, &metaJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}
