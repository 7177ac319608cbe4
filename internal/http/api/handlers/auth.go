package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/auth"
	"github.com/quizforge/trivia-api/internal/logging"
	"github.com/quizforge/trivia-api/internal/ratelimit"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	tokens  *auth.TokenService
	limiter *ratelimit.Manager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(tokens *auth.TokenService, limiter *ratelimit.Manager) *AuthHandler {
	return &AuthHandler{tokens: tokens, limiter: limiter}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates credentials and returns a signed bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.limiter != nil {
		result, errAllow := h.limiter.Allow(c.Request.Context(), c.ClientIP())
		if errAllow == nil && !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many login attempts"})
			return
		}
	}

	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	result, errLogin := h.tokens.Login(c.Request.Context(), body.Username, body.Password)
	if errLogin != nil {
		if errors.Is(errLogin, auth.ErrUnknownUser) || errors.Is(errLogin, auth.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": errLogin.Error()})
			return
		}
		logging.FromContext(c).WithError(errLogin).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.Token,
		"token_type":   "Bearer",
		"iat":          result.IssuedAt.Format(time.RFC3339),
		"exp":          result.ExpiresAt.Format(time.RFC3339),
	})
}
