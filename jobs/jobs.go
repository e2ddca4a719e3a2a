// Package jobs holds the nightly housekeeping that keeps lease, payment and
// token state in line with the calendar.
package jobs

import (
	"context"
	"time"

	"property-service/config"
	"property-service/models"

	cron "github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type Housekeeper struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHousekeeper(db *gorm.DB) *Housekeeper {
	return &Housekeeper{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (h *Housekeeper) today() time.Time {
	n := h.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// MarkOverduePayments flips pending payments due before today to overdue.
func (h *Housekeeper) MarkOverduePayments(ctx context.Context) (int64, error) {
	result := h.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ? AND due_date < ?", models.PaymentPending, h.today()).
		Update("status", models.PaymentOverdue)
	return result.RowsAffected, result.Error
}

// EndExpiredLeases ends active leases whose end date has passed and frees
// their units.
func (h *Housekeeper) EndExpiredLeases(ctx context.Context) (int64, error) {
	var ended int64
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var leases []models.Lease
		if err := tx.Where("status = ? AND end_date < ?", models.LeaseActive, h.today()).Find(&leases).Error; err != nil {
			return err
		}
		for _, l := range leases {
			if err := tx.Model(&l).Update("status", models.LeaseEnded).Error; err != nil {
				return err
			}
			if err := models.ReleaseUnit(tx, l.UnitID); err != nil {
				return err
			}
			ended++
		}
		return nil
	})
	return ended, err
}

// PurgeExpiredTokens hard-deletes refresh tokens past their expiry.
func (h *Housekeeper) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	result := h.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", h.now().Unix()).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// Schedule registers the nightly runs on c.
func (h *Housekeeper) Schedule(c *cron.Cron) error {
	tasks := []struct {
		spec string
		name string
		run  func(context.Context) (int64, error)
	}{
		{"0 3 * * *", "mark overdue payments", h.MarkOverduePayments},
		{"5 3 * * *", "end expired leases", h.EndExpiredLeases},
		{"10 3 * * *", "purge expired refresh tokens", h.PurgeExpiredTokens},
	}
	for _, task := range tasks {
		_, err := c.AddFunc(task.spec, func() {
			n, err := task.run(context.Background())
			if err != nil {
				config.Config.Logger.Errorf("Scheduled %s failed: %v", task.name, err)
				return
			}
			config.Config.Logger.Infof("Scheduled %s touched %d rows", task.name, n)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
