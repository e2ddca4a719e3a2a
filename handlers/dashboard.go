package handlers

import (
	"math"
	"net/http"
	"time"

	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"
	"property-service/reports"

	"gorm.io/gorm"
)

const dashboardMonths = 6

type DashboardHandler struct {
	db *gorm.DB
}

func SetupDashboardRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := DashboardHandler{db: db}
	mux.HandleFunc("GET /api/dashboard", auth.Anyone(handler.get))
}

type dashboardCounts struct {
	Units               int64   `json:"units"`
	OccupiedUnits       int64   `json:"occupied_units"`
	VacantUnits         int64   `json:"vacant_units"`
	MaintenanceUnits    int64   `json:"maintenance_units"`
	OccupancyRate       float64 `json:"occupancy_rate"`
	Tenants             int64   `json:"tenants"`
	ActiveLeases        int64   `json:"active_leases"`
	OpenMaintenance     int64   `json:"open_maintenance"`
	OpenCleaning        int64   `json:"open_cleaning"`
	PendingReservations int64   `json:"pending_reservations"`
}

type dashboardMoney struct {
	CollectedThisMonth float64              `json:"collected_this_month"`
	Outstanding        float64              `json:"outstanding"`
	RecentPayments     []models.Payment     `json:"recent_payments"`
	Revenue            []reports.MonthlyRow `json:"revenue"`
}

type dashboard struct {
	Counts dashboardCounts `json:"counts"`
	Money  *dashboardMoney `json:"money,omitempty"`
}

func (h *DashboardHandler) get(w http.ResponseWriter, r *http.Request) {
	db := h.db.WithContext(r.Context())
	var d dashboard
	c := &d.Counts
	openStatuses := []models.RequestStatus{models.RequestPending, models.RequestInProgress}
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&c.Units, db.Model(&models.Unit{})},
		{&c.OccupiedUnits, db.Model(&models.Unit{}).Where("status = ?", models.UnitOccupied)},
		{&c.VacantUnits, db.Model(&models.Unit{}).Where("status = ?", models.UnitVacant)},
		{&c.MaintenanceUnits, db.Model(&models.Unit{}).Where("status = ?", models.UnitMaintenance)},
		{&c.Tenants, db.Model(&models.Tenant{})},
		{&c.ActiveLeases, db.Model(&models.Lease{}).Where("status = ?", models.LeaseActive)},
		{&c.OpenMaintenance, db.Model(&models.ServiceRequest{}).Where("kind = ? AND status IN ?", models.MaintenanceRequest, openStatuses)},
		{&c.OpenCleaning, db.Model(&models.ServiceRequest{}).Where("kind = ? AND status IN ?", models.CleaningRequest, openStatuses)},
		{&c.PendingReservations, db.Model(&models.Reservation{}).Where("status = ?", models.ReservationPending)},
	}
	for _, item := range counts {
		if err := item.query.Count(item.dest).Error; err != nil {
			helper.WriteDbError(w, err)
			return
		}
	}
	if c.Units > 0 {
		c.OccupancyRate = math.Round(float64(c.OccupiedUnits)/float64(c.Units)*10000) / 100
	}

	user := middlewares.GetUserFromContext(r.Context())
	if user != nil && user.Role == models.ManagerRole {
		money, err := h.money(r, db)
		if err != nil {
			helper.WriteDbError(w, err)
			return
		}
		d.Money = money
	}
	helper.WriteJson(w, http.StatusOK, d)
}

func (h *DashboardHandler) money(r *http.Request, db *gorm.DB) (*dashboardMoney, error) {
	now := time.Now().UTC()
	from, to := reports.LastMonths(now, dashboardMonths)
	in, err := reports.Load(r.Context(), h.db, from, to, 0)
	if err != nil {
		return nil, err
	}
	report := reports.Build(in)

	m := &dashboardMoney{Revenue: report.Monthly}
	if n := len(report.Monthly); n > 0 {
		m.CollectedThisMonth = report.Monthly[n-1].Revenue
	}
	var outstanding struct{ Total float64 }
	err = db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status IN ?", []models.PaymentStatus{models.PaymentPending, models.PaymentOverdue}).
		Scan(&outstanding).Error
	if err != nil {
		return nil, err
	}
	m.Outstanding = outstanding.Total
	if err := db.Where("status = ?", models.PaymentPaid).Order("paid_at DESC").Limit(5).Find(&m.RecentPayments).Error; err != nil {
		return nil, err
	}
	if m.RecentPayments == nil {
		m.RecentPayments = []models.Payment{}
	}
	return m, nil
}
