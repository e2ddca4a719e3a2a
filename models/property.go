package models

import "gorm.io/gorm"

type UnitStatus string

const (
	UnitVacant      UnitStatus = "vacant"
	UnitOccupied    UnitStatus = "occupied"
	UnitMaintenance UnitStatus = "maintenance"
)

// Owner receives RevenueShare percent of the rent collected on their units.
type Owner struct {
	gorm.Model
	Name         string  `json:"name" gorm:"size:200;not null"`
	Email        string  `json:"email" gorm:"size:255"`
	Phone        string  `json:"phone" gorm:"size:30"`
	Address      string  `json:"address" gorm:"size:500"`
	RevenueShare float64 `json:"revenue_share"`
	Units        []Unit  `json:"units,omitempty"`
}

type Unit struct {
	gorm.Model
	Number    string     `json:"number" gorm:"size:50;not null;index"`
	Building  string     `json:"building" gorm:"size:200"`
	Address   string     `json:"address" gorm:"size:500"`
	Type      string     `json:"type" gorm:"size:50"`
	Bedrooms  int        `json:"bedrooms"`
	Bathrooms float64    `json:"bathrooms"`
	SizeSqft  float64    `json:"size_sqft"`
	Rent      float64    `json:"rent"`
	Status    UnitStatus `json:"status" gorm:"size:20;not null;default:vacant"`
	OwnerID   *uint      `json:"owner_id" gorm:"index"`
	Owner     *Owner     `json:"owner,omitempty"`
}
