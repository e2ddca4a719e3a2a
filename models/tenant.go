package models

import "gorm.io/gorm"

type Tenant struct {
	gorm.Model
	FirstName        string `json:"first_name" gorm:"size:100;not null"`
	LastName         string `json:"last_name" gorm:"size:100;not null"`
	Email            string `json:"email" gorm:"size:255;index"`
	Phone            string `json:"phone" gorm:"size:30"`
	EmergencyContact string `json:"emergency_contact" gorm:"size:255"`
	Notes            string `json:"notes" gorm:"type:text"`
}
