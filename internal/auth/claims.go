package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/quizforge/trivia-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IssueUserClaims persists the four registration claims (user_id, username,
// email, role) for a user. Rows are upserted on (user_id, type) so reissuing
// after a role change refreshes the stored snapshot. Must run inside the
// caller's transaction so a failure rolls back the whole registration.
func IssueUserClaims(tx *gorm.DB, user *models.User, roleName string) error {
	if tx == nil || user == nil || user.ID == 0 {
		return fmt.Errorf("issue claims: missing user")
	}
	claims := []models.Claim{
		{UserID: user.ID, Type: models.ClaimTypeUserID, Value: strconv.FormatUint(user.ID, 10)},
		{UserID: user.ID, Type: models.ClaimTypeUsername, Value: user.Username},
		{UserID: user.ID, Type: models.ClaimTypeEmail, Value: user.Email},
		{UserID: user.ID, Type: models.ClaimTypeRole, Value: roleName},
	}
	if errUpsert := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&claims).Error; errUpsert != nil {
		return fmt.Errorf("issue claims: %w", errUpsert)
	}
	return nil
}

// LoadClaimMap loads the persisted claims of a user folded into a type→value
// mapping. Rows are read in insertion order; a later row of the same type
// overwrites an earlier one.
func LoadClaimMap(ctx context.Context, db *gorm.DB, userID uint64) (map[string]string, error) {
	var rows []models.Claim
	if errFind := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("load claims: %w", errFind)
	}
	folded := make(map[string]string, len(rows))
	for _, row := range rows {
		folded[row.Type] = row.Value
	}
	return folded, nil
}
