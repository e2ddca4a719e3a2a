package models

import "gorm.io/gorm"

type RoleType string

const (
	ManagerRole RoleType = "manager"
	StaffRole   RoleType = "staff"
)

type User struct {
	gorm.Model
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string   `json:"-"`
	Role      RoleType `json:"role" gorm:"size:20;not null"`
}

type RefreshToken struct {
	gorm.Model
	ExpiresAt int64 `gorm:"index"`
	UserID    uint
	User      User
}

// All lists every model AutoMigrate needs to know about.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Owner{},
		&Unit{},
		&Tenant{},
		&Lease{},
		&Payment{},
		&ServiceRequest{},
		&Staff{},
		&Review{},
		&Reservation{},
	}
}
