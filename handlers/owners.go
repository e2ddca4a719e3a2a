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

type OwnerHandler struct {
	db *gorm.DB
}

func SetupOwnerRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := OwnerHandler{db: db}
	mux.HandleFunc("GET /api/owners", auth.Manager(handler.getAll))
	mux.HandleFunc("GET /api/owners/{id}", auth.Manager(handler.getOne))
	mux.HandleFunc("POST /api/owners", auth.Manager(handler.create))
	mux.HandleFunc("PUT /api/owners/{id}", auth.Manager(handler.update))
	mux.HandleFunc("DELETE /api/owners/{id}", auth.Manager(handler.delete))
}

func (o *OwnerHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.OwnerDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	config.Config.Logger.Infof("New request to create owner: %s", payload.Name)
	owner := models.Owner{
		Name:         payload.Name,
		Email:        payload.Email,
		Phone:        payload.Phone,
		Address:      payload.Address,
		RevenueShare: payload.RevenueShare,
	}
	if err := o.db.WithContext(r.Context()).Create(&owner).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, owner)
}

func (o *OwnerHandler) update(w http.ResponseWriter, r *http.Request) {
	db := o.db.WithContext(r.Context())
	var owner models.Owner
	if _, ok := loadByID(w, r, db, &owner); !ok {
		return
	}
	var payload dto.OwnerDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	owner.Name = payload.Name
	owner.Email = payload.Email
	owner.Phone = payload.Phone
	owner.Address = payload.Address
	owner.RevenueShare = payload.RevenueShare
	if err := db.Save(&owner).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, owner)
}

func (o *OwnerHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	query := o.db.WithContext(r.Context()).Model(&models.Owner{})
	query = helper.Search(query, page.Search, "name", "email", "phone", "address")
	var owners []models.Owner
	response, err := helper.Paginate(query, page, &owners)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (o *OwnerHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var owner models.Owner
	if _, ok := loadByID(w, r, o.db.WithContext(r.Context()).Preload("Units"), &owner); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, owner)
}

func (o *OwnerHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helper.PathID(r)
	if !ok {
		helper.WriteJsonError(w, http.StatusBadRequest, "invalid id in the path")
		return
	}
	err := o.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Unit{}).Where("owner_id = ?", id).Update("owner_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Owner{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, map[string]string{"message": "owner deleted successfully"})
}
