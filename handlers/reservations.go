package handlers

import (
	"fmt"
	"net/http"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"gorm.io/gorm"
)

type ReservationHandler struct {
	db *gorm.DB
}

func SetupReservationRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := ReservationHandler{db: db}
	mux.HandleFunc("GET /api/reservations", auth.Anyone(handler.getAll))
	mux.HandleFunc("GET /api/reservations/{id}", auth.Anyone(handler.getOne))
	mux.HandleFunc("POST /api/reservations", auth.Anyone(handler.create))
	mux.HandleFunc("PUT /api/reservations/{id}", auth.Anyone(handler.update))
	mux.HandleFunc("PATCH /api/reservations/{id}/status", auth.Anyone(handler.setStatus))
	mux.HandleFunc("DELETE /api/reservations/{id}", auth.Anyone(handler.delete))
}

// checkConfirmedOverlap rejects a confirmed stay that collides with another
// confirmed stay on the same unit.
func checkConfirmedOverlap(tx *gorm.DB, res *models.Reservation) error {
	var confirmed []models.Reservation
	err := tx.Where("unit_id = ? AND status = ? AND id <> ?", res.UnitID, models.ReservationConfirmed, res.ID).
		Find(&confirmed).Error
	if err != nil {
		return err
	}
	for _, other := range confirmed {
		if overlaps(res.CheckIn, res.CheckOut, other.CheckIn, other.CheckOut) {
			return helper.Conflict("unit is already reserved for these dates")
		}
	}
	return nil
}

func applyReservation(res *models.Reservation, payload dto.ReservationDto) {
	res.UnitID = payload.UnitID
	res.GuestName = payload.GuestName
	res.GuestEmail = payload.GuestEmail
	res.GuestPhone = payload.GuestPhone
	res.CheckIn = payload.CheckIn.Time
	res.CheckOut = payload.CheckOut.Time
	res.Notes = payload.Notes
}

func checkReservation(db *gorm.DB, payload dto.ReservationDto) error {
	if !payload.CheckOut.After(payload.CheckIn.Time) {
		return helper.Invalid("check_out must be after check_in")
	}
	return mustExist(db, &models.Unit{}, payload.UnitID, "unit")
}

func (h *ReservationHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.ReservationDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	db := h.db.WithContext(r.Context())
	if err := checkReservation(db, payload); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	res := models.Reservation{Status: models.ReservationPending}
	applyReservation(&res, payload)
	config.Config.Logger.Infof("New reservation for unit %d by %s", res.UnitID, res.GuestName)
	if err := db.Create(&res).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, res)
}

func (h *ReservationHandler) update(w http.ResponseWriter, r *http.Request) {
	db := h.db.WithContext(r.Context())
	var res models.Reservation
	if _, ok := loadByID(w, r, db, &res); !ok {
		return
	}
	var payload dto.ReservationDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkReservation(tx, payload); err != nil {
			return err
		}
		applyReservation(&res, payload)
		if res.Status == models.ReservationConfirmed {
			if err := checkConfirmedOverlap(tx, &res); err != nil {
				return err
			}
		}
		return tx.Omit("Unit").Save(&res).Error
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, res)
}

func (h *ReservationHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	db := h.db.WithContext(r.Context())
	var res models.Reservation
	if _, ok := loadByID(w, r, db, &res); !ok {
		return
	}
	var payload dto.StatusDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	next := models.ReservationStatus(payload.Status)
	if !res.Status.CanTransition(next) {
		helper.WriteJsonError(w, http.StatusConflict, fmt.Sprintf("cannot move reservation from %s to %s", res.Status, next))
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if next == models.ReservationConfirmed {
			if err := checkConfirmedOverlap(tx, &res); err != nil {
				return err
			}
		}
		res.Status = next
		return tx.Model(&res).Update("status", next).Error
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, res)
}

func (h *ReservationHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	q := r.URL.Query()
	query := h.db.WithContext(r.Context()).Model(&models.Reservation{})
	query = helper.Search(query, page.Search, "guest_name", "guest_email", "guest_phone")
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if unitID := q.Get("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	var reservations []models.Reservation
	response, err := helper.Paginate(query, page, &reservations, "Unit")
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (h *ReservationHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var res models.Reservation
	if _, ok := loadByID(w, r, h.db.WithContext(r.Context()).Preload("Unit"), &res); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, res)
}

func (h *ReservationHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, h.db.WithContext(r.Context()), &models.Reservation{}, "reservation")
}
