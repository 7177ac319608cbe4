package models

// Claim types persisted for every user at registration.
const (
	ClaimTypeUserID   = "user_id"
	ClaimTypeUsername = "username"
	ClaimTypeEmail    = "email"
	ClaimTypeRole     = "role"
)

// Claim is a (type, value) pair attached to a user and flattened into
// issued tokens. One row per type per user, upserted on reissue.
type Claim struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`                      // Primary key.
	UserID uint64 `gorm:"not null;uniqueIndex:idx_claims_user_type"`     // Owning user ID.
	Type   string `gorm:"type:text;not null;uniqueIndex:idx_claims_user_type"` // Claim type.
	Value  string `gorm:"type:text;not null"`                            // Claim value.
}
