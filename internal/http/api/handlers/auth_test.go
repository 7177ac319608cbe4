package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizforge/trivia-api/internal/auth"
	"github.com/quizforge/trivia-api/internal/config"
	"github.com/quizforge/trivia-api/internal/models"
)

func TestLoginEndpoint(t *testing.T) {
	conn := openHandlerDB(t)
	user := createUser(t, conn, "alice", models.RoleCustomer)
	if err := auth.IssueUserClaims(conn, user, models.RoleCustomer); err != nil {
		t.Fatalf("issue claims: %v", err)
	}

	tokens := auth.NewTokenService(conn, config.JWTConfig{Secret: "login-test", Expiry: time.Hour})
	h := NewAuthHandler(tokens, nil)
	r := gin.New()
	r.POST("/login", h.Login)

	w := doJSON(r, http.MethodPost, "/login", map[string]any{"username": "alice", "password": "password"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["token_type"] != "Bearer" {
		t.Fatalf("unexpected token type: %v", body["token_type"])
	}

	token, _ := body["access_token"].(string)
	principal, err := auth.ParseToken("login-test", token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if principal.UserID != user.ID || principal.Role != models.RoleCustomer {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	conn := openHandlerDB(t)
	user := createUser(t, conn, "alice", models.RoleCustomer)
	if err := auth.IssueUserClaims(conn, user, models.RoleCustomer); err != nil {
		t.Fatalf("issue claims: %v", err)
	}

	tokens := auth.NewTokenService(conn, config.JWTConfig{Secret: "login-test", Expiry: time.Hour})
	h := NewAuthHandler(tokens, nil)
	r := gin.New()
	r.POST("/login", h.Login)

	w := doJSON(r, http.MethodPost, "/login", map[string]any{"username": "alice", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["message"] != "password invalid" {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/login", map[string]any{"username": "ghost", "password": "pw"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["message"] != "username invalid" {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}
}

func TestLoginEndpoint_MissingBody(t *testing.T) {
	conn := openHandlerDB(t)
	tokens := auth.NewTokenService(conn, config.JWTConfig{Secret: "login-test", Expiry: time.Hour})
	h := NewAuthHandler(tokens, nil)
	r := gin.New()
	r.POST("/login", h.Login)

	w := doJSON(r, http.MethodPost, "/login", map[string]any{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
