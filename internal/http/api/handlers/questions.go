package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/genai"
	"github.com/quizforge/trivia-api/internal/logging"
	"github.com/quizforge/trivia-api/internal/models"
	"gorm.io/gorm"
)

// QuestionHandler manages question endpoints, including AI generation.
type QuestionHandler struct {
	db       *gorm.DB
	pipeline *genai.Pipeline
}

// NewQuestionHandler constructs a QuestionHandler.
func NewQuestionHandler(db *gorm.DB, pipeline *genai.Pipeline) *QuestionHandler {
	return &QuestionHandler{db: db, pipeline: pipeline}
}

// generateQuestionRequest defines the request body for AI generation.
type generateQuestionRequest struct {
	Category   string `json:"category" binding:"required"`
	CategoryID uint64 `json:"category_id" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required,difficulty"`
}

// GenerateAI creates a new question through the generation pipeline.
func (h *QuestionHandler) GenerateAI(c *gin.Context) {
	var body generateQuestionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "category, category_id and a valid difficulty are required"})
		return
	}
	difficulty, errDifficulty := models.ParseDifficulty(body.Difficulty)
	if errDifficulty != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid difficulty"})
		return
	}

	ctx := c.Request.Context()

	var category models.Category
	if errFind := h.db.WithContext(ctx).First(&category, body.CategoryID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	question, errGenerate := h.pipeline.Generate(ctx, category.Name, category.ID, difficulty)
	if errGenerate != nil {
		switch {
		case errors.Is(errGenerate, genai.ErrDuplicateQuestion):
			c.JSON(http.StatusConflict, gin.H{"message": "Question already exists."})
		case errors.Is(errGenerate, genai.ErrGenerationFailed):
			logging.FromContext(c).WithError(errGenerate).Error("question generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "question generation failed"})
		default:
			logging.FromContext(c).WithError(errGenerate).Error("persist generated question failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, questionPayload(&question))
}

// List returns all questions.
func (h *QuestionHandler) List(c *gin.Context) {
	var rows []models.Question
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		Order("created_at DESC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, questionPayload(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"questions": out})
}

// Get returns a question by ID.
func (h *QuestionHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid question id"})
		return
	}
	var question models.Question
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		First(&question, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, questionPayload(&question))
}

// updateQuestionRequest defines the request body for question updates.
type updateQuestionRequest struct {
	QuestionText     *string   `json:"question_text"`
	Answer           *string   `json:"answer"`
	Difficulty       *string   `json:"difficulty"`
	CategoryID       *uint64   `json:"category_id"`
	IncorrectAnswers *[]string `json:"incorrect_answers"`
}

// Update modifies a question.
func (h *QuestionHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid question id"})
		return
	}
	var body updateQuestionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	ctx := c.Request.Context()

	updates := map[string]any{}
	if body.QuestionText != nil {
		text := strings.TrimSpace(*body.QuestionText)
		if text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "question_text must not be empty"})
			return
		}
		var taken int64
		if errCount := h.db.WithContext(ctx).Model(&models.Question{}).
			Where("question_text = ? AND id <> ?", text, id).
			Count(&taken).Error; errCount != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		if taken > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Question already exists."})
			return
		}
		updates["question_text"] = text
	}
	if body.Answer != nil {
		updates["answer"] = strings.TrimSpace(*body.Answer)
	}
	if body.Difficulty != nil {
		difficulty, errDifficulty := models.ParseDifficulty(*body.Difficulty)
		if errDifficulty != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid difficulty"})
			return
		}
		updates["difficulty"] = difficulty
	}
	if body.CategoryID != nil {
		var category models.Category
		if errFind := h.db.WithContext(ctx).First(&category, *body.CategoryID).Error; errFind != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category_id"})
			return
		}
		updates["category_id"] = category.ID
	}
	if body.IncorrectAnswers != nil {
		if len(*body.IncorrectAnswers) != 3 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "incorrect_answers must have exactly 3 entries"})
			return
		}
		var holder models.Question
		if errEncode := holder.SetIncorrectAnswers(*body.IncorrectAnswers); errEncode != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		updates["incorrect_answers"] = holder.IncorrectAnswers
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nothing to update"})
		return
	}

	res := h.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		logging.FromContext(c).WithError(res.Error).Error("update question failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "question not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a question.
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid question id"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Question{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "question not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// questionPayload shapes a question response body.
func questionPayload(question *models.Question) gin.H {
	incorrect, _ := question.IncorrectAnswerList()
	payload := gin.H{
		"id":                question.ID,
		"category_id":       question.CategoryID,
		"difficulty":        question.Difficulty,
		"question_text":     question.QuestionText,
		"answer":            question.Answer,
		"incorrect_answers": incorrect,
		"times_asked":       question.TimesAsked,
		"success_rate":      question.SuccessRate,
		"created_at":        question.CreatedAt,
	}
	if question.Category != nil {
		payload["category"] = question.Category.Name
	}
	return payload
}
