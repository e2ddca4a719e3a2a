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

type TenantHandler struct {
	db *gorm.DB
}

func SetupTenantRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := TenantHandler{db: db}
	mux.HandleFunc("GET /api/tenants", auth.Anyone(handler.getAll))
	mux.HandleFunc("GET /api/tenants/{id}", auth.Anyone(handler.getOne))
	mux.HandleFunc("POST /api/tenants", auth.Manager(handler.create))
	mux.HandleFunc("PUT /api/tenants/{id}", auth.Manager(handler.update))
	mux.HandleFunc("DELETE /api/tenants/{id}", auth.Manager(handler.delete))
}

func applyTenant(tenant *models.Tenant, payload dto.TenantDto) {
	tenant.FirstName = payload.FirstName
	tenant.LastName = payload.LastName
	tenant.Email = payload.Email
	tenant.Phone = payload.Phone
	tenant.EmergencyContact = payload.EmergencyContact
	tenant.Notes = payload.Notes
}

func (t *TenantHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.TenantDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	config.Config.Logger.Infof("New request to create tenant with email: %s", payload.Email)
	var tenant models.Tenant
	applyTenant(&tenant, payload)
	if err := t.db.WithContext(r.Context()).Create(&tenant).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, tenant)
}

func (t *TenantHandler) update(w http.ResponseWriter, r *http.Request) {
	db := t.db.WithContext(r.Context())
	var tenant models.Tenant
	if _, ok := loadByID(w, r, db, &tenant); !ok {
		return
	}
	var payload dto.TenantDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	applyTenant(&tenant, payload)
	if err := db.Save(&tenant).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, tenant)
}

func (t *TenantHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	query := t.db.WithContext(r.Context()).Model(&models.Tenant{})
	query = helper.Search(query, page.Search, "first_name", "last_name", "email", "phone")
	var tenants []models.Tenant
	response, err := helper.Paginate(query, page, &tenants)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (t *TenantHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var tenant models.Tenant
	if _, ok := loadByID(w, r, t.db.WithContext(r.Context()), &tenant); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, tenant)
}

func (t *TenantHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helper.PathID(r)
	if !ok {
		helper.WriteJsonError(w, http.StatusBadRequest, "invalid id in the path")
		return
	}
	db := t.db.WithContext(r.Context())
	var active int64
	if err := db.Model(&models.Lease{}).Where("tenant_id = ? AND status = ?", id, models.LeaseActive).Count(&active).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	if active > 0 {
		helper.WriteJsonError(w, http.StatusConflict, "tenant has an active lease")
		return
	}
	deleteByID(w, r, db, &models.Tenant{}, "tenant")
}
