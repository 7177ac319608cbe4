package models

import "time"

// User represents a player account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username     string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email        string `gorm:"type:text;not null;uniqueIndex"` // Unique email address.
	PasswordHash string `gorm:"type:text;not null"`             // Hashed password.

	RoleID uint64 `gorm:"not null;index"`    // Assigned role ID.
	Role   *Role  `gorm:"foreignKey:RoleID"` // Assigned role.

	Level            int    `gorm:"not null;default:1"`            // Gamification level.
	ExperiencePoints int    `gorm:"not null;default:0"`            // Accumulated experience points.
	ProfilePicture   string `gorm:"type:text;default:default.jpg"` // Stored profile picture filename.

	Claims []Claim `gorm:"foreignKey:UserID"` // Persisted token claims.
	Scores []Score `gorm:"foreignKey:UserID"` // Recorded game scores.

	CreatedAt time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
	LastLogin *time.Time // Last successful login, nil until first login.
}
