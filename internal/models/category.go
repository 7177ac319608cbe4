package models

// Category represents a trivia category used by questions and scores.
type Category struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	Name string `gorm:"type:text;not null;uniqueIndex"` // Unique category name.
}
