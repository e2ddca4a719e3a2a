package handlers

import (
	"net/http"

	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"gorm.io/gorm"
)

type ReviewHandler struct {
	db *gorm.DB
}

func SetupReviewRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := ReviewHandler{db: db}
	mux.HandleFunc("GET /api/reviews", auth.Anyone(handler.getAll))
	mux.HandleFunc("GET /api/reviews/{id}", auth.Anyone(handler.getOne))
	mux.HandleFunc("POST /api/reviews", auth.Anyone(handler.create))
	mux.HandleFunc("PUT /api/reviews/{id}", auth.Anyone(handler.update))
	mux.HandleFunc("DELETE /api/reviews/{id}", auth.Manager(handler.delete))
}

func (h *ReviewHandler) check(db *gorm.DB, payload dto.ReviewDto) error {
	if err := mustExistOptional(db, &models.Tenant{}, payload.TenantID, "tenant"); err != nil {
		return err
	}
	return mustExistOptional(db, &models.Unit{}, payload.UnitID, "unit")
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.ReviewDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	db := h.db.WithContext(r.Context())
	if err := h.check(db, payload); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	review := models.Review{
		TenantID: payload.TenantID,
		UnitID:   payload.UnitID,
		Rating:   payload.Rating,
		Comment:  payload.Comment,
	}
	if err := db.Create(&review).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, review)
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request) {
	db := h.db.WithContext(r.Context())
	var review models.Review
	if _, ok := loadByID(w, r, db, &review); !ok {
		return
	}
	var payload dto.ReviewDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if err := h.check(db, payload); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	review.TenantID = payload.TenantID
	review.UnitID = payload.UnitID
	review.Rating = payload.Rating
	review.Comment = payload.Comment
	if err := db.Save(&review).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, review)
}

func (h *ReviewHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	q := r.URL.Query()
	query := h.db.WithContext(r.Context()).Model(&models.Review{})
	query = helper.Search(query, page.Search, "comment")
	if unitID := q.Get("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	if rating := q.Get("rating"); rating != "" {
		query = query.Where("rating = ?", rating)
	}
	var reviews []models.Review
	response, err := helper.Paginate(query, page, &reviews)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (h *ReviewHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if _, ok := loadByID(w, r, h.db.WithContext(r.Context()), &review); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, review)
}

func (h *ReviewHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, h.db.WithContext(r.Context()), &models.Review{}, "review")
}
