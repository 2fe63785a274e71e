package domain

import "time"

// AuditEntry records an admin action on a reviewable object
// (deposit approval, withdrawal payout, settings change).
type AuditEntry struct {
	ID         int64                  `db:"id" json:"id"`
	AdminID    int64                  `db:"admin_id" json:"admin_id"`
	Action     string                 `db:"action" json:"action"`
	ObjectType string                 `db:"object_type" json:"object_type"`
	ObjectID   int64                  `db:"object_id" json:"object_id"`
	Meta       map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}
