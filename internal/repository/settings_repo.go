package repository

import (
	"context"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the current referral settings. The table holds exactly
// one row, seeded by the migrations.
func (r *SettingsRepository) Get(ctx context.Context) (domain.ReferralSettings, error) {
	var s domain.ReferralSettings
	err := r.db.QueryRow(ctx, `
		SELECT level1_percent, level2_percent, level3_percent, level4_percent, level5_percent,
		       area_manager_percent, regional_manager_percent, updated_at
		FROM referral_settings
		WHERE id = 1
	`).Scan(
		&s.Level1Percent, &s.Level2Percent, &s.Level3Percent, &s.Level4Percent, &s.Level5Percent,
		&s.AreaManagerPercent, &s.RegionalManagerPercent, &s.UpdatedAt,
	)
	return s, err
}

// Update replaces the referral settings
func (r *SettingsRepository) Update(ctx context.Context, s domain.ReferralSettings) error {
	_, err := r.db.Exec(ctx, `
		UPDATE referral_settings
		SET level1_percent = $1, level2_percent = $2, level3_percent = $3,
		    level4_percent = $4, level5_percent = $5,
		    area_manager_percent = $6, regional_manager_percent = $7,
		    updated_at = NOW()
		WHERE id = 1
	`, s.Level1Percent, s.Level2Percent, s.Level3Percent, s.Level4Percent, s.Level5Percent,
		s.AreaManagerPercent, s.RegionalManagerPercent)
	return err
}
