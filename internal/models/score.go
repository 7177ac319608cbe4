package models

import "time"

// Score records the result of a game session for a user.
type Score struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Owning user ID.
	User   *User  `gorm:"foreignKey:UserID"` // Owning user.

	Score    int `gorm:"not null"` // Achieved score.
	Duration int // Session duration in seconds.

	CategoryID *uint64   `gorm:"index"`                 // Optional category ID.
	Category   *Category `gorm:"foreignKey:CategoryID"` // Optional category.

	Date time.Time `gorm:"not null;autoCreateTime"` // Timestamp of the session.
}
