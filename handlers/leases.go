package handlers

import (
	"net/http"
	"time"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"gorm.io/gorm"
)

type LeaseHandler struct {
	db *gorm.DB
}

func SetupLeaseRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := LeaseHandler{db: db}
	mux.HandleFunc("GET /api/leases", auth.Manager(handler.getAll))
	mux.HandleFunc("GET /api/leases/{id}", auth.Manager(handler.getOne))
	mux.HandleFunc("POST /api/leases", auth.Manager(handler.create))
	mux.HandleFunc("PUT /api/leases/{id}", auth.Manager(handler.update))
	mux.HandleFunc("POST /api/leases/{id}/terminate", auth.Manager(handler.terminate))
	mux.HandleFunc("DELETE /api/leases/{id}", auth.Manager(handler.delete))
}

// checkLease validates dates and references. When active is set it also
// rejects an overlap with another active lease on the same unit; excludeID is
// the lease being edited.
func checkLease(tx *gorm.DB, payload dto.LeaseDto, excludeID uint, active bool) error {
	if !payload.EndDate.After(payload.StartDate.Time) {
		return helper.Invalid("end_date must be after start_date")
	}
	if err := mustExist(tx, &models.Unit{}, payload.UnitID, "unit"); err != nil {
		return err
	}
	if err := mustExist(tx, &models.Tenant{}, payload.TenantID, "tenant"); err != nil {
		return err
	}
	if !active {
		return nil
	}
	var current []models.Lease
	err := tx.Where("unit_id = ? AND status = ? AND id <> ?", payload.UnitID, models.LeaseActive, excludeID).
		Find(&current).Error
	if err != nil {
		return err
	}
	for _, l := range current {
		if overlaps(payload.StartDate.Time, payload.EndDate.Time, l.StartDate, l.EndDate) {
			return helper.Conflict("unit already has an active lease for these dates")
		}
	}
	return nil
}

func applyLease(lease *models.Lease, payload dto.LeaseDto) {
	lease.UnitID = payload.UnitID
	lease.TenantID = payload.TenantID
	lease.StartDate = payload.StartDate.Time
	lease.EndDate = payload.EndDate.Time
	lease.MonthlyRent = payload.MonthlyRent
	lease.Deposit = payload.Deposit
}

func (l *LeaseHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.LeaseDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	config.Config.Logger.Infof("New request to create lease for unit %d tenant %d", payload.UnitID, payload.TenantID)
	lease := models.Lease{Status: models.LeaseActive}
	applyLease(&lease, payload)
	err := l.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := checkLease(tx, payload, 0, true); err != nil {
			return err
		}
		if err := tx.Create(&lease).Error; err != nil {
			return err
		}
		return tx.Model(&models.Unit{}).Where("id = ?", lease.UnitID).Update("status", models.UnitOccupied).Error
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, lease)
}

func (l *LeaseHandler) update(w http.ResponseWriter, r *http.Request) {
	db := l.db.WithContext(r.Context())
	var lease models.Lease
	id, ok := loadByID(w, r, db, &lease)
	if !ok {
		return
	}
	var payload dto.LeaseDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	previousUnit := lease.UnitID
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkLease(tx, payload, id, lease.Status == models.LeaseActive); err != nil {
			return err
		}
		applyLease(&lease, payload)
		if err := tx.Save(&lease).Error; err != nil {
			return err
		}
		if lease.Status != models.LeaseActive || previousUnit == lease.UnitID {
			return nil
		}
		if err := tx.Model(&models.Unit{}).Where("id = ?", lease.UnitID).Update("status", models.UnitOccupied).Error; err != nil {
			return err
		}
		return models.ReleaseUnit(tx, previousUnit)
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, lease)
}

func (l *LeaseHandler) terminate(w http.ResponseWriter, r *http.Request) {
	db := l.db.WithContext(r.Context())
	var lease models.Lease
	if _, ok := loadByID(w, r, db, &lease); !ok {
		return
	}
	if lease.Status != models.LeaseActive {
		helper.WriteJsonError(w, http.StatusConflict, "only active leases can be terminated")
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	// capping end_date at today must keep it after start_date
	if !lease.StartDate.Before(today) {
		helper.WriteJsonError(w, http.StatusConflict, "lease has not started yet, delete it instead")
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		lease.Status = models.LeaseTerminated
		if lease.EndDate.After(today) {
			lease.EndDate = today
		}
		if err := tx.Model(&lease).Updates(map[string]any{"status": lease.Status, "end_date": lease.EndDate}).Error; err != nil {
			return err
		}
		return models.ReleaseUnit(tx, lease.UnitID)
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	config.Config.Logger.Infof("Lease %d terminated", lease.ID)
	helper.WriteJson(w, http.StatusOK, lease)
}

func (l *LeaseHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	q := r.URL.Query()
	query := l.db.WithContext(r.Context()).Model(&models.Lease{})
	if page.Search != "" {
		query = query.Where(
			"tenant_id IN (?) OR unit_id IN (?)",
			helper.Search(l.db.Model(&models.Tenant{}).Select("id"), page.Search, "first_name", "last_name", "email"),
			helper.Search(l.db.Model(&models.Unit{}).Select("id"), page.Search, "number", "building"),
		)
	}
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if unitID := q.Get("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	if tenantID := q.Get("tenant_id"); tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}
	var leases []models.Lease
	response, err := helper.Paginate(query, page, &leases, "Unit", "Tenant")
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (l *LeaseHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var lease models.Lease
	if _, ok := loadByID(w, r, l.db.WithContext(r.Context()).Preload("Unit").Preload("Tenant"), &lease); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, lease)
}

func (l *LeaseHandler) delete(w http.ResponseWriter, r *http.Request) {
	db := l.db.WithContext(r.Context())
	var lease models.Lease
	if _, ok := loadByID(w, r, db, &lease); !ok {
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lease_id = ?", lease.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&lease).Error; err != nil {
			return err
		}
		return models.ReleaseUnit(tx, lease.UnitID)
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, map[string]string{"message": "lease deleted successfully"})
}
