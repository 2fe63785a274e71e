package domain

import "time"

// Commission is an append-only record of a single referral payout.
// It is written together with the wallet credit in one database
// transaction and never updated afterwards.
type Commission struct {
	ID            int64     `db:"id" json:"id"`
	BeneficiaryID int64     `db:"beneficiary_id" json:"beneficiary_id"`
	SourceUserID  int64     `db:"source_user_id" json:"source_user_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Kind          string    `db:"kind" json:"kind"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReferralSettings holds the configured payout percentages. Level
// percentages apply by upline depth, manager percentages apply once to
// the nearest ancestor holding the matching role.
type ReferralSettings struct {
	Level1Percent          float64 `db:"level1_percent" json:"level1_percent"`
	Level2Percent          float64 `db:"level2_percent" json:"level2_percent"`
	Level3Percent          float64 `db:"level3_percent" json:"level3_percent"`
	Level4Percent          float64 `db:"level4_percent" json:"level4_percent"`
	Level5Percent          float64 `db:"level5_percent" json:"level5_percent"`
	AreaManagerPercent     float64 `db:"area_manager_percent" json:"area_manager_percent"`
	RegionalManagerPercent float64 `db:"regional_manager_percent" json:"regional_manager_percent"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// LevelPercent returns the percentage for an upline depth, zero for
// depths outside 1..5.
func (s ReferralSettings) LevelPercent(depth int) float64 {
	switch depth {
	case 1:
		return s.Level1Percent
	case 2:
		return s.Level2Percent
	case 3:
		return s.Level3Percent
	case 4:
		return s.Level4Percent
	case 5:
		return s.Level5Percent
	}
	return 0
}
