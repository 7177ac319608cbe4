package models

// UserProfile is a 1:1 extension of User holding gamification state and
// the profile picture reference.
type UserProfile struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.
	UserID uint64 `gorm:"not null;uniqueIndex"`     // Owning user ID.

	ProfilePicture   string `gorm:"type:text;default:default.jpg"` // Stored picture filename.
	Level            int    `gorm:"not null;default:1"`            // Gamification level.
	ExperiencePoints int    `gorm:"not null;default:0"`            // Accumulated experience points.
}
