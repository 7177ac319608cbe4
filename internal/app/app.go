package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/auth"
	"github.com/quizforge/trivia-api/internal/config"
	"github.com/quizforge/trivia-api/internal/db"
	"github.com/quizforge/trivia-api/internal/http/api"
	"github.com/quizforge/trivia-api/internal/logging"
	"github.com/quizforge/trivia-api/internal/models"
	"github.com/quizforge/trivia-api/internal/security"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful shutdown once the context is canceled.
const shutdownTimeout = 10 * time.Second

// RunServer boots the trivia API server.
func RunServer(ctx context.Context, configPath string, port int) error {
	cfg, errLoad := config.Load(config.ResolveConfigPath(configPath))
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Logging)

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errAdmin := EnsureAdminUser(conn, cfg.Admin); errAdmin != nil {
		return errAdmin
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), logging.RequestID(), requestLogger())

	if errRegister := api.RegisterRoutes(engine, conn, cfg); errRegister != nil {
		return errRegister
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Infof("trivia api listening on :%d", port)
	if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
		return errServe
	}
	return nil
}

// EnsureAdminUser creates the bootstrap administrator account when config
// provides one and no admin exists yet. User, profile, and claims are
// written in one transaction, like any other registration.
func EnsureAdminUser(conn *gorm.DB, cfg config.AdminConfig) error {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil
	}

	var role models.Role
	if errRole := conn.Where("name = ?", models.RoleAdmin).First(&role).Error; errRole != nil {
		return fmt.Errorf("app: admin role lookup: %w", errRole)
	}

	var existing int64
	if errCount := conn.Model(&models.User{}).
		Where("role_id = ?", role.ID).
		Count(&existing).Error; errCount != nil {
		return fmt.Errorf("app: admin count: %w", errCount)
	}
	if existing > 0 {
		return nil
	}

	hash, errHash := security.HashPassword(cfg.Password)
	if errHash != nil {
		return fmt.Errorf("app: hash admin password: %w", errHash)
	}

	email := strings.TrimSpace(cfg.Email)
	if email == "" {
		email = username + "@localhost"
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	errTx := conn.Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&user).Error; errCreate != nil {
			return errCreate
		}
		if errProfile := tx.Create(&models.UserProfile{UserID: user.ID}).Error; errProfile != nil {
			return errProfile
		}
		return auth.IssueUserClaims(tx, &user, role.Name)
	})
	if errTx != nil {
		return fmt.Errorf("app: create admin user: %w", errTx)
	}
	log.Infof("created bootstrap admin user %q", username)
	return nil
}

// requestLogger emits one structured log line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.FromContext(c).WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request completed")
	}
}
