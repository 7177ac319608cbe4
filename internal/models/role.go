package models

// Role names seeded at migration time.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// Role represents a named permission bucket assigned to users.
type Role struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	Name string `gorm:"type:text;not null;uniqueIndex"` // Unique role name.
}
