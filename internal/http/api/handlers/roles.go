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

// RoleHandler manages role endpoints.
type RoleHandler struct {
	db *gorm.DB
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{db: db}
}

// createRoleRequest defines the request body for role creation.
type createRoleRequest struct {
	RoleName string `json:"role_name" binding:"required"`
}

// Create creates a new role.
func (h *RoleHandler) Create(c *gin.Context) {
	var body createRoleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing role_name"})
		return
	}
	name := strings.TrimSpace(body.RoleName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing role_name"})
		return
	}

	ctx := c.Request.Context()

	var existing int64
	if errCount := h.db.WithContext(ctx).Model(&models.Role{}).
		Where("name = ?", name).
		Count(&existing).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Role already exists."})
		return
	}

	role := models.Role{Name: name}
	if errCreate := h.db.WithContext(ctx).Create(&role).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": role.ID, "name": role.Name})
}

// List returns all roles.
func (h *RoleHandler) List(c *gin.Context) {
	var roles []models.Role
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&roles).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(roles))
	for _, role := range roles {
		out = append(out, gin.H{"id": role.ID, "name": role.Name})
	}
	c.JSON(http.StatusOK, gin.H{"roles": out})
}

// Get returns a role by ID.
func (h *RoleHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role id"})
		return
	}
	var role models.Role
	if errFind := h.db.WithContext(c.Request.Context()).First(&role, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "role not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": role.ID, "name": role.Name})
}
