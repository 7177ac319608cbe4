package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/quizforge/trivia-api/internal/auth"
	"github.com/quizforge/trivia-api/internal/config"
	"github.com/quizforge/trivia-api/internal/genai"
	"github.com/quizforge/trivia-api/internal/http/api/handlers"
	"github.com/quizforge/trivia-api/internal/models"
	"github.com/quizforge/trivia-api/internal/ratelimit"
	"github.com/quizforge/trivia-api/internal/upload"
	"gorm.io/gorm"
)

// RegisterRoutes registers all routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if r == nil || db == nil {
		return nil
	}
	registerDifficultyValidation()

	uploads, errUploads := upload.NewStore(cfg.Upload.Dir)
	if errUploads != nil {
		return errUploads
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	r.Static("/uploads", uploads.Dir())

	limiter := ratelimit.NewManager(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.RedisAddr, "login")
	tokens := auth.NewTokenService(db, cfg.JWT)
	authHandler := handlers.NewAuthHandler(tokens, limiter)
	r.POST("/login", authHandler.Login)

	authed := r.Group("")
	authed.Use(auth.Authenticate(cfg.JWT.Secret))

	admin := r.Group("")
	admin.Use(auth.Authenticate(cfg.JWT.Secret), auth.RequireAdmin())

	selfOrAdmin := r.Group("")
	selfOrAdmin.Use(auth.Authenticate(cfg.JWT.Secret), auth.RequireSelfOrAdmin())

	userHandler := handlers.NewUserHandler(db, uploads)
	r.POST("/users", userHandler.Register)
	authed.GET("/users", userHandler.List)
	authed.GET("/users/:user_id", userHandler.Get)
	selfOrAdmin.PATCH("/users/:user_id", userHandler.Update)
	selfOrAdmin.DELETE("/users/:user_id", userHandler.Delete)

	profileHandler := handlers.NewProfileHandler(db, uploads)
	admin.GET("/profiles", profileHandler.List)
	authed.GET("/users/:user_id/profile", profileHandler.Get)
	selfOrAdmin.PATCH("/users/:user_id/profile", profileHandler.Update)

	roleHandler := handlers.NewRoleHandler(db)
	admin.POST("/roles", roleHandler.Create)
	admin.GET("/roles", roleHandler.List)
	admin.GET("/roles/:id", roleHandler.Get)

	categoryHandler := handlers.NewCategoryHandler(db)
	admin.POST("/categories", categoryHandler.Create)
	admin.GET("/categories", categoryHandler.List)
	admin.GET("/categories/:id", categoryHandler.Get)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	pipeline := genai.NewPipeline(db, genai.NewClient(cfg.AI))
	questionHandler := handlers.NewQuestionHandler(db, pipeline)
	admin.POST("/questions/ai", questionHandler.GenerateAI)
	r.GET("/questions", questionHandler.List)
	r.GET("/questions/:id", questionHandler.Get)
	admin.PATCH("/questions/:id", questionHandler.Update)
	admin.DELETE("/questions/:id", questionHandler.Delete)

	scoreHandler := handlers.NewScoreHandler(db)
	admin.POST("/users/:user_id/scores", scoreHandler.Create)
	authed.GET("/users/:user_id/scores", scoreHandler.ListByUser)
	authed.GET("/users/:user_id/scores/:score_id", scoreHandler.Get)
	admin.PUT("/users/:user_id/scores/:score_id", scoreHandler.Update)
	admin.DELETE("/users/:user_id/scores/:score_id", scoreHandler.Delete)
	authed.GET("/scores", scoreHandler.ListAll)

	return nil
}

// registerDifficultyValidation adds the `difficulty` binding rule to gin's
// validator engine. Safe to call more than once.
func registerDifficultyValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDifficulty(fl.Field().String())
		return err == nil
	})
}
