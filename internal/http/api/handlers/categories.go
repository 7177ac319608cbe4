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

// CategoryHandler manages category endpoints.
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// categoryRequest defines the request body for category creation and update.
type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create creates a new category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var body categoryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing name"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing name"})
		return
	}

	ctx := c.Request.Context()

	var existing int64
	if errCount := h.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ?", name).
		Count(&existing).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Category already exists."})
		return
	}

	category := models.Category{Name: name}
	if errCreate := h.db.WithContext(ctx).Create(&category).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": category.ID, "name": category.Name})
}

// List returns all categories.
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if errFind := h.db.WithContext(c.Request.Context()).Order("name ASC").Find(&categories).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		out = append(out, gin.H{"id": category.ID, "name": category.Name})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// Get returns a category by ID.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
		return
	}
	var category models.Category
	if errFind := h.db.WithContext(c.Request.Context()).First(&category, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": category.ID, "name": category.Name})
}

// Update renames a category.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
		return
	}
	var body categoryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing name"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing name"})
		return
	}

	ctx := c.Request.Context()

	var taken int64
	if errCount := h.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&taken).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if taken > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Category already exists."})
		return
	}

	res := h.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Category{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
