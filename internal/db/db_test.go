package db

import (
	"testing"

	"github.com/quizforge/trivia-api/internal/models"
)

func TestOpenAndMigrate_SeedsDefaultRoles(t *testing.T) {
	conn, err := Open("file:migrate_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, name := range []string{models.RoleAdmin, models.RoleCustomer} {
		var role models.Role
		if err := conn.Where("name = ?", name).First(&role).Error; err != nil {
			t.Fatalf("seeded role %s missing: %v", name, err)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := Open("file:migrate_idem?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int64
	if err := conn.Model(&models.Role{}).Count(&count).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 seeded roles, got %d", count)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestIsPostgresDSN(t *testing.T) {
	cases := map[string]bool{
		"postgres://user:pw@localhost/db":   true,
		"postgresql://user:pw@localhost/db": true,
		"host=localhost dbname=trivia":      true,
		"file:trivia.db":                    false,
		":memory:":                          false,
		"./data/trivia.db":                  false,
	}
	for dsn, want := range cases {
		if got := isPostgresDSN(dsn); got != want {
			t.Fatalf("isPostgresDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestCaseInsensitiveLike_SQLite(t *testing.T) {
	conn, err := Open("file:dialect_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !IsSQLite(conn) {
		t.Fatalf("expected sqlite dialect, got %s", DialectName(conn))
	}
	if expr := CaseInsensitiveLikeExpr(conn, "username"); expr != "LOWER(username) LIKE ?" {
		t.Fatalf("unexpected expression: %s", expr)
	}
	if pattern := NormalizeLikePattern(conn, "%ALICE%"); pattern != "%alice%" {
		t.Fatalf("unexpected pattern: %s", pattern)
	}
}
