package handlers

import (
	"net/http"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"gorm.io/gorm"
)

type UnitHandler struct {
	db *gorm.DB
}

func SetupUnitRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := UnitHandler{db: db}
	mux.HandleFunc("GET /api/units", auth.Anyone(handler.getAll))
	mux.HandleFunc("GET /api/units/{id}", auth.Anyone(handler.getOne))
	mux.HandleFunc("POST /api/units", auth.Manager(handler.create))
	mux.HandleFunc("PUT /api/units/{id}", auth.Manager(handler.update))
	mux.HandleFunc("DELETE /api/units/{id}", auth.Manager(handler.delete))
}

func applyUnit(unit *models.Unit, payload dto.UnitDto) {
	unit.Number = payload.Number
	unit.Building = payload.Building
	unit.Address = payload.Address
	unit.Type = payload.Type
	unit.Bedrooms = payload.Bedrooms
	unit.Bathrooms = payload.Bathrooms
	unit.SizeSqft = payload.SizeSqft
	unit.Rent = payload.Rent
	unit.OwnerID = payload.OwnerID
	if payload.Status != "" {
		unit.Status = models.UnitStatus(payload.Status)
	}
	if unit.Status == "" {
		unit.Status = models.UnitVacant
	}
}

func (u *UnitHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.UnitDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	db := u.db.WithContext(r.Context())
	if err := mustExistOptional(db, &models.Owner{}, payload.OwnerID, "owner"); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	config.Config.Logger.Infof("New request to create unit: %s", payload.Number)
	var unit models.Unit
	applyUnit(&unit, payload)
	if err := db.Create(&unit).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, unit)
}

func (u *UnitHandler) update(w http.ResponseWriter, r *http.Request) {
	db := u.db.WithContext(r.Context())
	var unit models.Unit
	if _, ok := loadByID(w, r, db, &unit); !ok {
		return
	}
	var payload dto.UnitDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if err := mustExistOptional(db, &models.Owner{}, payload.OwnerID, "owner"); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	applyUnit(&unit, payload)
	if err := db.Omit("Owner").Save(&unit).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, unit)
}

func (u *UnitHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	q := r.URL.Query()
	query := u.db.WithContext(r.Context()).Model(&models.Unit{})
	query = helper.Search(query, page.Search, "number", "building", "address", "type")
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if ownerID := q.Get("owner_id"); ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	var units []models.Unit
	response, err := helper.Paginate(query, page, &units, "Owner")
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (u *UnitHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var unit models.Unit
	if _, ok := loadByID(w, r, u.db.WithContext(r.Context()).Preload("Owner"), &unit); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, unit)
}

func (u *UnitHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helper.PathID(r)
	if !ok {
		helper.WriteJsonError(w, http.StatusBadRequest, "invalid id in the path")
		return
	}
	db := u.db.WithContext(r.Context())
	var active int64
	if err := db.Model(&models.Lease{}).Where("unit_id = ? AND status = ?", id, models.LeaseActive).Count(&active).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	if active > 0 {
		helper.WriteJsonError(w, http.StatusConflict, "unit has an active lease")
		return
	}
	deleteByID(w, r, db, &models.Unit{}, "unit")
}
