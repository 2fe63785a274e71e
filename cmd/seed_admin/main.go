package main

import (
	"context"
	"log"
	"os"

	"earnclub/internal/db"
	"earnclub/internal/domain"
	"earnclub/internal/referral"
	"earnclub/internal/repository"
	"earnclub/internal/service"

	"golang.org/x/crypto/bcrypt"
)

// Seeds an admin account so the panel is reachable on a fresh install.
// Expects DATABASE_URL, JWT_SECRET, ADMIN_PHONE and ADMIN_PASSWORD.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	phone := os.Getenv("ADMIN_PHONE")
	password := os.Getenv("ADMIN_PASSWORD")
	if phone == "" || password == "" {
		log.Fatal("ADMIN_PHONE and ADMIN_PASSWORD must be set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	existing, err := repo.GetByPhone(ctx, phone)
	if err != nil {
		log.Fatalf("lookup admin: %v", err)
	}
	if existing != nil {
		log.Printf("admin already exists id=%d", existing.ID)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	code, err := referral.AssignCode(ctx, repo, referral.DefaultCodeAttempts)
	if err != nil {
		log.Fatalf("assign referral code: %v", err)
	}

	u := &domain.User{
		Phone:        phone,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		ReferralCode: code,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin created id=%d", u.ID)

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID, string(u.Role))
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	log.Printf("token: %s", token)
}
