package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"gorm.io/gorm"
)

// RequestHandler serves one queue of service requests; maintenance and
// cleaning each get their own instance.
type RequestHandler struct {
	db   *gorm.DB
	kind models.RequestKind
}

func SetupRequestRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware, kind models.RequestKind) {
	handler := RequestHandler{db: db, kind: kind}
	base := "/api/" + string(kind)
	mux.HandleFunc("GET "+base, auth.Anyone(handler.getAll))
	mux.HandleFunc("GET "+base+"/{id}", auth.Anyone(handler.getOne))
	mux.HandleFunc("POST "+base, auth.Anyone(handler.create))
	mux.HandleFunc("PUT "+base+"/{id}", auth.Anyone(handler.update))
	mux.HandleFunc("PATCH "+base+"/{id}/status", auth.Anyone(handler.setStatus))
	mux.HandleFunc("DELETE "+base+"/{id}", auth.Manager(handler.delete))
}

func (h *RequestHandler) scoped(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", h.kind)
}

func (h *RequestHandler) check(db *gorm.DB, payload dto.ServiceRequestDto) error {
	if err := mustExist(db, &models.Unit{}, payload.UnitID, "unit"); err != nil {
		return err
	}
	if err := mustExistOptional(db, &models.Tenant{}, payload.TenantID, "tenant"); err != nil {
		return err
	}
	return mustExistOptional(db, &models.Staff{}, payload.AssignedStaffID, "staff")
}

func applyRequest(req *models.ServiceRequest, payload dto.ServiceRequestDto) {
	req.UnitID = payload.UnitID
	req.TenantID = payload.TenantID
	req.AssignedStaffID = payload.AssignedStaffID
	req.Title = payload.Title
	req.Description = payload.Description
	req.ScheduledFor = payload.ScheduledFor.Ptr()
	req.Cost = payload.Cost
	if payload.Priority != "" {
		req.Priority = payload.Priority
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
}

func (h *RequestHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.ServiceRequestDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	db := h.db.WithContext(r.Context())
	if err := h.check(db, payload); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	req := models.ServiceRequest{Kind: h.kind, Status: models.RequestPending}
	applyRequest(&req, payload)
	config.Config.Logger.Infof("New %s request for unit %d: %s", h.kind, req.UnitID, req.Title)
	if err := db.Create(&req).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, req)
}

func (h *RequestHandler) update(w http.ResponseWriter, r *http.Request) {
	db := h.db.WithContext(r.Context())
	var req models.ServiceRequest
	if _, ok := loadByID(w, r, h.scoped(db), &req); !ok {
		return
	}
	var payload dto.ServiceRequestDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if err := h.check(db, payload); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	applyRequest(&req, payload)
	if err := db.Omit("Unit", "AssignedStaff").Save(&req).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, req)
}

func (h *RequestHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	db := h.db.WithContext(r.Context())
	var req models.ServiceRequest
	if _, ok := loadByID(w, r, h.scoped(db), &req); !ok {
		return
	}
	var payload dto.StatusDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	next := models.RequestStatus(payload.Status)
	if !req.Status.CanTransition(next) {
		helper.WriteJsonError(w, http.StatusConflict, fmt.Sprintf("cannot move %s request from %s to %s", h.kind, req.Status, next))
		return
	}
	updates := map[string]any{"status": next}
	if next == models.RequestCompleted {
		now := time.Now().UTC()
		req.CompletedAt = &now
		updates["completed_at"] = now
	}
	req.Status = next
	if err := db.Model(&req).Updates(updates).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	config.Config.Logger.Infof("%s request %d moved to %s", h.kind, req.ID, next)
	helper.WriteJson(w, http.StatusOK, req)
}

func (h *RequestHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	q := r.URL.Query()
	db := h.db.WithContext(r.Context())
	query := h.scoped(db.Model(&models.ServiceRequest{}))
	query = helper.Search(query, page.Search, "title", "description")
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := q.Get("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if unitID := q.Get("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	if q.Get("mine") == "true" {
		user := middlewares.GetUserFromContext(r.Context())
		var staff models.Staff
		err := db.Where("user_id = ?", user.ID).First(&staff).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			query = query.Where("1 = 0")
		case err != nil:
			helper.WriteDbError(w, err)
			return
		default:
			query = query.Where("assigned_staff_id = ?", staff.ID)
		}
	}
	var requests []models.ServiceRequest
	response, err := helper.Paginate(query, page, &requests, "Unit", "AssignedStaff")
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (h *RequestHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceRequest
	db := h.scoped(h.db.WithContext(r.Context())).Preload("Unit").Preload("AssignedStaff")
	if _, ok := loadByID(w, r, db, &req); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, req)
}

func (h *RequestHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, h.scoped(h.db.WithContext(r.Context())), &models.ServiceRequest{}, string(h.kind)+" request")
}
