package models

import (
	"time"

	"gorm.io/gorm"
)

type LeaseStatus string

const (
	LeaseActive     LeaseStatus = "active"
	LeaseEnded      LeaseStatus = "ended"
	LeaseTerminated LeaseStatus = "terminated"
)

type Lease struct {
	gorm.Model
	UnitID      uint        `json:"unit_id" gorm:"index;not null"`
	Unit        *Unit       `json:"unit,omitempty"`
	TenantID    uint        `json:"tenant_id" gorm:"index;not null"`
	Tenant      *Tenant     `json:"tenant,omitempty"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	MonthlyRent float64     `json:"monthly_rent"`
	Deposit     float64     `json:"deposit"`
	Status      LeaseStatus `json:"status" gorm:"size:20;not null;default:active;index"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

type Payment struct {
	gorm.Model
	LeaseID   uint          `json:"lease_id" gorm:"index;not null"`
	Lease     *Lease        `json:"lease,omitempty"`
	Amount    float64       `json:"amount"`
	DueDate   time.Time     `json:"due_date"`
	PaidAt    *time.Time    `json:"paid_at"`
	Method    string        `json:"method" gorm:"size:30"`
	Status    PaymentStatus `json:"status" gorm:"size:20;not null;default:pending;index"`
	Reference string        `json:"reference" gorm:"size:64;index"`
	Notes     string        `json:"notes" gorm:"type:text"`
}

// ReleaseUnit marks an occupied unit vacant once no active lease holds it.
func ReleaseUnit(tx *gorm.DB, unitID uint) error {
	var active int64
	if err := tx.Model(&Lease{}).Where("unit_id = ? AND status = ?", unitID, LeaseActive).Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return tx.Model(&Unit{}).
		Where("id = ? AND status = ?", unitID, UnitOccupied).
		Update("status", UnitVacant).Error
}
