package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quizforge/trivia-api/internal/config"
	"github.com/quizforge/trivia-api/internal/models"
	"github.com/quizforge/trivia-api/internal/security"
)

const testSecret = "test-secret"

func openAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Role{}, &models.User{}, &models.Claim{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username, roleName, password string) *models.User {
	t.Helper()
	role := models.Role{Name: roleName}
	if err := conn.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := IssueUserClaims(conn, &user, roleName); err != nil {
		t.Fatalf("issue claims: %v", err)
	}
	return &user
}

func TestLogin_ClaimRoundTrip(t *testing.T) {
	conn := openAuthDB(t)
	user := seedUser(t, conn, "alice", models.RoleAdmin, "s3cret")

	service := NewTokenService(conn, config.JWTConfig{Secret: testSecret, Expiry: time.Hour})
	result, err := service.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	principal, err := ParseToken(testSecret, result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if principal.UserID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, principal.UserID)
	}
	if principal.Username != "alice" || principal.Email != "alice@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.Role != models.RoleAdmin || !principal.IsAdmin() {
		t.Fatalf("expected admin role, got %q", principal.Role)
	}

	var stored models.User
	if err := conn.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatalf("expected last_login to be set")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	conn := openAuthDB(t)
	service := NewTokenService(conn, config.JWTConfig{Secret: testSecret, Expiry: time.Hour})

	_, err := service.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	conn := openAuthDB(t)
	seedUser(t, conn, "bob", models.RoleCustomer, "correct")

	service := NewTokenService(conn, config.JWTConfig{Secret: testSecret, Expiry: time.Hour})
	_, err := service.Login(context.Background(), "bob", "wrong")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	conn := openAuthDB(t)
	seedUser(t, conn, "carol", models.RoleCustomer, "pw")

	service := NewTokenService(conn, config.JWTConfig{Secret: testSecret, Expiry: time.Hour})
	service.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	result, err := service.Login(context.Background(), "carol", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := ParseToken(testSecret, result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	conn := openAuthDB(t)
	seedUser(t, conn, "dave", models.RoleCustomer, "pw")

	service := NewTokenService(conn, config.JWTConfig{Secret: testSecret, Expiry: time.Hour})
	result, err := service.Login(context.Background(), "dave", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := ParseToken("other-secret", result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssueUserClaims_UpsertRefreshesRole(t *testing.T) {
	conn := openAuthDB(t)
	user := seedUser(t, conn, "erin", models.RoleCustomer, "pw")

	var count int64
	if err := conn.Model(&models.Claim{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count claims: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 claims, got %d", count)
	}

	if err := IssueUserClaims(conn, user, models.RoleAdmin); err != nil {
		t.Fatalf("reissue claims: %v", err)
	}
	if err := conn.Model(&models.Claim{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count claims: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected upsert to keep 4 claims, got %d", count)
	}

	folded, err := LoadClaimMap(context.Background(), conn, user.ID)
	if err != nil {
		t.Fatalf("load claims: %v", err)
	}
	if folded[models.ClaimTypeRole] != models.RoleAdmin {
		t.Fatalf("expected refreshed role claim, got %q", folded[models.ClaimTypeRole])
	}
}
