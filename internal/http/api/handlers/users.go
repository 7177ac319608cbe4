package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/auth"
	dbutil "github.com/quizforge/trivia-api/internal/db"
	"github.com/quizforge/trivia-api/internal/logging"
	"github.com/quizforge/trivia-api/internal/models"
	"github.com/quizforge/trivia-api/internal/security"
	"github.com/quizforge/trivia-api/internal/upload"
	"gorm.io/gorm"
)

// UserHandler manages user account endpoints.
type UserHandler struct {
	db      *gorm.DB
	uploads *upload.Store
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB, uploads *upload.Store) *UserHandler {
	return &UserHandler{db: db, uploads: uploads}
}

// Register creates a new user account from a multipart form. User, profile,
// and claims are written atomically: a failure in any step rolls back all.
func (h *UserHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if username == "" || email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, email and password are required"})
		return
	}

	level := 1
	if raw := strings.TrimSpace(c.PostForm("level")); raw != "" {
		if parsed, errParse := strconv.Atoi(raw); errParse == nil && parsed > 0 {
			level = parsed
		}
	}
	experiencePoints := 0
	if raw := strings.TrimSpace(c.PostForm("experience_points")); raw != "" {
		if parsed, errParse := strconv.Atoi(raw); errParse == nil && parsed >= 0 {
			experiencePoints = parsed
		}
	}

	ctx := c.Request.Context()

	var existing int64
	if errCount := h.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&existing).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email or username already exists."})
		return
	}

	var role models.Role
	if errRole := h.db.WithContext(ctx).Where("name = ?", models.RoleCustomer).First(&role).Error; errRole != nil {
		logging.FromContext(c).WithError(errRole).Error("customer role lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	picture := upload.DefaultPicture
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
		picture = stored
	}

	user := models.User{
		Username:         username,
		Email:            email,
		PasswordHash:     hash,
		RoleID:           role.ID,
		Level:            level,
		ExperiencePoints: experiencePoints,
		ProfilePicture:   picture,
	}
	errTx := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&user).Error; errCreate != nil {
			return errCreate
		}
		if errProfile := tx.Create(&models.UserProfile{
			UserID:           user.ID,
			ProfilePicture:   picture,
			Level:            level,
			ExperiencePoints: experiencePoints,
		}).Error; errProfile != nil {
			return errProfile
		}
		return auth.IssueUserClaims(tx, &user, role.Name)
	})
	if errTx != nil {
		// Concurrent registrations race to the unique constraint; surface
		// the loser as a conflict rather than a server error.
		var again int64
		if h.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? OR email = ?", username, email).
			Count(&again).Error == nil && again > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Email or username already exists."})
			return
		}
		logging.FromContext(c).WithError(errTx).Error("create user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Successfully created.",
		"data":    userPayload(&user, role.Name),
	})
}

// List returns users with optional filters.
func (h *UserHandler) List(c *gin.Context) {
	var (
		usernameQ = strings.TrimSpace(c.Query("username"))
		emailQ    = strings.TrimSpace(c.Query("email"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Preload("Role")
	if usernameQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+usernameQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern)
	}
	if emailQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+emailQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern)
	}

	var rows []models.User
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		roleName := ""
		if rows[i].Role != nil {
			roleName = rows[i].Role.Name
		}
		out = append(out, userPayload(&rows[i], roleName))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// Get returns a user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Preload("Role").First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	c.JSON(http.StatusOK, userPayload(&user, roleName))
}

// updateUserRequest defines the request body for user updates.
type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Update modifies a user's email or password.
func (h *UserHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if errFind := h.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	updates := map[string]any{}
	if body.Email != nil {
		email := strings.TrimSpace(*body.Email)
		if email != "" {
			var taken int64
			if errCount := h.db.WithContext(ctx).Model(&models.User{}).
				Where("email = ? AND id <> ?", email, id).
				Count(&taken).Error; errCount != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
				return
			}
			if taken > 0 {
				c.JSON(http.StatusConflict, gin.H{"message": "Email already exists. Please choose a different email."})
				return
			}
			updates["email"] = email
		}
	}
	if body.Password != nil && *body.Password != "" {
		hash, errHash := security.HashPassword(*body.Password)
		if errHash != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "nothing to update"})
		return
	}

	if errUpdate := h.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error; errUpdate != nil {
		logging.FromContext(c).WithError(errUpdate).Error("update user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a user account with its claims, profile, and scores.
func (h *UserHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if errFind := h.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	errTx := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errDel := tx.Where("user_id = ?", id).Delete(&models.Claim{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("user_id = ?", id).Delete(&models.Score{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("user_id = ?", id).Delete(&models.UserProfile{}).Error; errDel != nil {
			return errDel
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if errTx != nil {
		logging.FromContext(c).WithError(errTx).Error("delete user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// userPayload shapes a user response body.
func userPayload(user *models.User, roleName string) gin.H {
	return gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"role":              roleName,
		"level":             user.Level,
		"experience_points": user.ExperiencePoints,
		"profile_picture":   user.ProfilePicture,
		"created_at":        user.CreatedAt,
		"last_login":        user.LastLogin,
	}
}
