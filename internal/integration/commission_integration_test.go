package integration

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"earnclub/internal/domain"
	"earnclub/internal/referral"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

// createChain inserts n users where user i refers user i+1 and returns
// their ids, buyer last.
func createChain(t *testing.T, repo *repository.UserRepository, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	ids := make([]int64, 0, n)
	var prev *int64
	for i := 0; i < n; i++ {
		u := &domain.User{
			Phone:        fmt.Sprintf("017%08d%03d", suffix%100000000, i),
			Name:         fmt.Sprintf("chain user %d", i),
			PasswordHash: "x",
			Role:         domain.RoleUser,
			ReferralCode: fmt.Sprintf("%d", (suffix+int64(i))%900000+100000),
			ReferredBy:   prev,
		}
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("create user %d: %v", i, err)
		}
		id := u.ID
		ids = append(ids, id)
		prev = &id
	}
	return ids
}

func TestCommissionRepository_AddCommission(t *testing.T) {
	db := connectDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	commissions := repository.NewCommissionRepository(db)

	ids := createChain(t, users, 2)
	referrer, buyer := ids[0], ids[1]

	if err := commissions.AddCommission(ctx, referrer, buyer, 100, referral.KindLevel1); err != nil {
		t.Fatalf("add commission: %v", err)
	}

	u, err := users.GetByID(ctx, referrer)
	if err != nil {
		t.Fatalf("get referrer: %v", err)
	}
	if math.Abs(u.ReferralBalance-100) > 1e-9 {
		t.Fatalf("expected referral balance 100, got %v", u.ReferralBalance)
	}

	rows, err := commissions.GetByBeneficiary(ctx, referrer, 10)
	if err != nil {
		t.Fatalf("get commissions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 commission row, got %d", len(rows))
	}
	if rows[0].SourceUserID != buyer {
		t.Fatalf("expected source %d, got %d", buyer, rows[0].SourceUserID)
	}
}

func TestCommissionRepository_AddCommission_UnknownBeneficiary(t *testing.T) {
	db := connectDB(t)

	commissions := repository.NewCommissionRepository(db)
	err := commissions.AddCommission(context.Background(), -1, -1, 10, referral.KindLevel1)
	if err == nil {
		t.Fatal("expected error for unknown beneficiary")
	}
}

// Full engine walk against the real database: a three-deep chain where
// the top user is a regional manager.
func TestEngine_DistributeAgainstDatabase(t *testing.T) {
	db := connectDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	commissions := repository.NewCommissionRepository(db)

	ids := createChain(t, users, 3)
	top, mid, buyer := ids[0], ids[1], ids[2]

	if err := users.SetRole(ctx, top, domain.RoleRegionalManager); err != nil {
		t.Fatalf("set role: %v", err)
	}

	settings := domain.ReferralSettings{
		Level1Percent:          10,
		Level2Percent:          5,
		RegionalManagerPercent: 6,
	}

	engine := referral.NewEngine(users, commissions)
	if err := engine.Distribute(ctx, buyer, 1000, settings); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	midUser, err := users.GetByID(ctx, mid)
	if err != nil {
		t.Fatalf("get mid: %v", err)
	}
	if math.Abs(midUser.ReferralBalance-100) > 1e-9 {
		t.Fatalf("mid: expected 100, got %v", midUser.ReferralBalance)
	}

	// top gets level 2 plus the regional manager override
	topUser, err := users.GetByID(ctx, top)
	if err != nil {
		t.Fatalf("get top: %v", err)
	}
	if math.Abs(topUser.ReferralBalance-110) > 1e-9 {
		t.Fatalf("top: expected 110, got %v", topUser.ReferralBalance)
	}

	byKind, err := commissions.TotalsByKind(ctx, top)
	if err != nil {
		t.Fatalf("totals by kind: %v", err)
	}
	if math.Abs(byKind[string(referral.KindLevel2)]-50) > 1e-9 {
		t.Fatalf("expected level2 total 50, got %v", byKind[string(referral.KindLevel2)])
	}
	if math.Abs(byKind[string(referral.KindRegionalManagerBonus)]-60) > 1e-9 {
		t.Fatalf("expected regional bonus 60, got %v", byKind[string(referral.KindRegionalManagerBonus)])
	}
}
