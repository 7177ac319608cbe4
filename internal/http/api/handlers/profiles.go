package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/logging"
	"github.com/quizforge/trivia-api/internal/models"
	"github.com/quizforge/trivia-api/internal/upload"
	"gorm.io/gorm"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	db      *gorm.DB
	uploads *upload.Store
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB, uploads *upload.Store) *ProfileHandler {
	return &ProfileHandler{db: db, uploads: uploads}
}

// List returns all user profiles.
func (h *ProfileHandler) List(c *gin.Context) {
	var rows []models.UserProfile
	if errFind := h.db.WithContext(c.Request.Context()).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, profilePayload(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}

// Get returns the profile belonging to a user.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	var profile models.UserProfile
	errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, profilePayload(&profile))
}

// Update modifies a user's profile from a multipart form. The level,
// experience, and picture fields are mirrored onto the user row so both
// views stay consistent.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}

	ctx := c.Request.Context()

	var profile models.UserProfile
	errFind := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	updates := map[string]any{}
	if raw := strings.TrimSpace(c.PostForm("level")); raw != "" {
		if level, errAtoi := strconv.Atoi(raw); errAtoi == nil && level > 0 {
			updates["level"] = level
		}
	}
	if raw := strings.TrimSpace(c.PostForm("experience_points")); raw != "" {
		if xp, errAtoi := strconv.Atoi(raw); errAtoi == nil && xp >= 0 {
			updates["experience_points"] = xp
		}
	}

	file, errFile := c.FormFile("profile_picture")
	if errFile == nil && file != nil {
		stored, errSave := h.uploads.SavePicture(c, file)
		if errSave != nil {
			if errors.Is(errSave, upload.ErrTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "The uploaded file is too large. Please upload a file smaller than 2MB."})
				return
			}
			if errors.Is(errSave, upload.ErrBadExtension) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "file type not allowed"})
				return
			}
			logging.FromContext(c).WithError(errSave).Error("save profile picture failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		updates["profile_picture"] = stored
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nothing to update"})
		return
	}

	errTx := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errUpdate := tx.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; errUpdate != nil {
			return errUpdate
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(updates).Error
	})
	if errTx != nil {
		logging.FromContext(c).WithError(errTx).Error("update profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// profilePayload shapes a profile response body.
func profilePayload(profile *models.UserProfile) gin.H {
	return gin.H{
		"id":                profile.ID,
		"user_id":           profile.UserID,
		"profile_picture":   profile.ProfilePicture,
		"level":             profile.Level,
		"experience_points": profile.ExperiencePoints,
	}
}
