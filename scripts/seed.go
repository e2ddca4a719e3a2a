package scripts

import (
	"errors"

	"property-service/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.RoleType
}

// SeedAccounts creates each account that does not exist yet and reports how
// many were created. Accounts without a password are skipped.
func SeedAccounts(db *gorm.DB, accounts []SeedAccount) (int, error) {
	created := 0
	for _, a := range accounts {
		if a.Email == "" || a.Password == "" {
			continue
		}
		var existing models.User
		err := db.Where("email = ?", a.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}
		user := models.User{
			Email:     a.Email,
			Password:  string(hash),
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Role:      a.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
