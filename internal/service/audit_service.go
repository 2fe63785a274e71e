package service

import (
	"context"

	"earnclub/internal/domain"
	"earnclub/internal/logger"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditService records admin actions. Failures to write the audit
// trail are logged but never fail the action itself.
type AuditService struct {
	repo *repository.AuditRepository
}

func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{repo: repository.NewAuditRepository(db)}
}

// Record writes one audit entry
func (s *AuditService) Record(ctx context.Context, adminID int64, action, objectType string, objectID int64, meta map[string]interface{}) {
	e := &domain.AuditEntry{
		AdminID:    adminID,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Meta:       meta,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		logger.Error("audit write failed",
			"admin_id", adminID, "action", action, "object_type", objectType,
			"object_id", objectID, "error", err)
	}
}

// List returns recent audit entries
func (s *AuditService) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	return s.repo.List(ctx, limit)
}
