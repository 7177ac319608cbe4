package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/models"
	"gorm.io/gorm"
)

// ScoreHandler manages score endpoints.
type ScoreHandler struct {
	db *gorm.DB
}

// NewScoreHandler constructs a ScoreHandler.
func NewScoreHandler(db *gorm.DB) *ScoreHandler {
	return &ScoreHandler{db: db}
}

// scoreRequest defines the request body for score creation and update.
type scoreRequest struct {
	Score      *int    `json:"score" binding:"required"`
	CategoryID *uint64 `json:"category_id"`
	Duration   int     `json:"duration"`
}

// Create records a new score for a user.
func (h *ScoreHandler) Create(c *gin.Context) {
	userID, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	var body scoreRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing score"})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if errFind := h.db.WithContext(ctx).First(&user, userID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	score := models.Score{
		UserID:     userID,
		Score:      *body.Score,
		CategoryID: body.CategoryID,
		Duration:   body.Duration,
	}
	if errCreate := h.db.WithContext(ctx).Create(&score).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Score created successfully.", "data": scorePayload(&score)})
}

// ListByUser returns all scores of a user.
func (h *ScoreHandler) ListByUser(c *gin.Context) {
	userID, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	var rows []models.Score
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, scorePayload(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"scores": out})
}

// ListAll returns all scores.
func (h *ScoreHandler) ListAll(c *gin.Context) {
	var rows []models.Score
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("date DESC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, scorePayload(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"scores": out})
}

// Get returns one score of a user.
func (h *ScoreHandler) Get(c *gin.Context) {
	userID, scoreID, errParse := scorePathIDs(c)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	var score models.Score
	errFind := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", scoreID, userID).
		First(&score).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "score not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, scorePayload(&score))
}

// Update modifies one score of a user.
func (h *ScoreHandler) Update(c *gin.Context) {
	userID, scoreID, errParse := scorePathIDs(c)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	var body scoreRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing score"})
		return
	}

	updates := map[string]any{"score": *body.Score, "duration": body.Duration}
	if body.CategoryID != nil {
		updates["category_id"] = *body.CategoryID
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Score{}).
		Where("id = ? AND user_id = ?", scoreID, userID).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "score not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes one score of a user.
func (h *ScoreHandler) Delete(c *gin.Context) {
	userID, scoreID, errParse := scorePathIDs(c)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", scoreID, userID).
		Delete(&models.Score{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "score not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func scorePathIDs(c *gin.Context) (uint64, uint64, error) {
	userID, errUser := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errUser != nil {
		return 0, 0, errUser
	}
	scoreID, errScore := strconv.ParseUint(strings.TrimSpace(c.Param("score_id")), 10, 64)
	if errScore != nil {
		return 0, 0, errScore
	}
	return userID, scoreID, nil
}

// scorePayload shapes a score response body.
func scorePayload(score *models.Score) gin.H {
	return gin.H{
		"id":          score.ID,
		"user_id":     score.UserID,
		"score":       score.Score,
		"category_id": score.CategoryID,
		"duration":    score.Duration,
		"date":        score.Date,
	}
}
