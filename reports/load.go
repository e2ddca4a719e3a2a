package reports

import (
	"context"
	"time"

	"property-service/models"

	"gorm.io/gorm"
)

// Load gathers everything Build needs for the months between from and to.
func Load(ctx context.Context, db *gorm.DB, from, to time.Time, feePercent float64) (Input, error) {
	months := Months(from, to)
	start := months[0].Start
	end := months[len(months)-1].Start.AddDate(0, 1, 0)
	db = db.WithContext(ctx)

	in := Input{
		From:                 start,
		To:                   months[len(months)-1].Start,
		ManagementFeePercent: feePercent,
		GeneratedAt:          time.Now().UTC(),
	}

	err := db.Model(&models.Payment{}).
		Select("payments.amount AS amount, payments.paid_at AS paid_at, units.owner_id AS owner_id").
		Joins("JOIN leases ON leases.id = payments.lease_id").
		Joins("JOIN units ON units.id = leases.unit_id").
		Where("payments.status = ? AND payments.paid_at >= ? AND payments.paid_at < ?", models.PaymentPaid, start, end).
		Scan(&in.Payments).Error
	if err != nil {
		return Input{}, err
	}

	var requests []models.ServiceRequest
	err = db.Where("status = ? AND completed_at >= ? AND completed_at < ? AND cost > 0", models.RequestCompleted, start, end).
		Find(&requests).Error
	if err != nil {
		return Input{}, err
	}
	for _, r := range requests {
		in.Expenses = append(in.Expenses, ExpenseRecord{Amount: r.Cost, At: *r.CompletedAt, Kind: string(r.Kind)})
	}

	var owners []models.Owner
	if err := db.Order("name").Find(&owners).Error; err != nil {
		return Input{}, err
	}
	for _, o := range owners {
		in.Owners = append(in.Owners, OwnerInfo{ID: o.ID, Name: o.Name, RevenueShare: o.RevenueShare})
	}

	var total, occupied int64
	if err := db.Model(&models.Unit{}).Count(&total).Error; err != nil {
		return Input{}, err
	}
	if err := db.Model(&models.Unit{}).Where("status = ?", models.UnitOccupied).Count(&occupied).Error; err != nil {
		return Input{}, err
	}
	in.TotalUnits = int(total)
	in.OccupiedUnits = int(occupied)
	return in, nil
}
