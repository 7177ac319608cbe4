package db

import (
	"errors"
	"fmt"

	"github.com/quizforge/trivia-api/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the schema and seeds reference data.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Claim{},
		&models.UserProfile{},
		&models.Category{},
		&models.Question{},
		&models.Score{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return ensureDefaultRoles(conn)
}

// ensureDefaultRoles seeds the Admin and Customer roles when absent.
func ensureDefaultRoles(conn *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleCustomer} {
		var role models.Role
		errFind := conn.Where("name = ?", name).First(&role).Error
		if errFind == nil {
			continue
		}
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fmt.Errorf("db: lookup role %s: %w", name, errFind)
		}
		if errCreate := conn.Create(&models.Role{Name: name}).Error; errCreate != nil {
			return fmt.Errorf("db: seed role %s: %w", name, errCreate)
		}
	}
	return nil
}
