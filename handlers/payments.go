package handlers

import (
	"net/http"
	"time"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	db *gorm.DB
}

func SetupPaymentRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := PaymentHandler{db: db}
	mux.HandleFunc("GET /api/payments", auth.Manager(handler.getAll))
	mux.HandleFunc("GET /api/payments/{id}", auth.Manager(handler.getOne))
	mux.HandleFunc("POST /api/payments", auth.Manager(handler.create))
	mux.HandleFunc("PUT /api/payments/{id}", auth.Manager(handler.update))
	mux.HandleFunc("POST /api/payments/{id}/pay", auth.Manager(handler.pay))
	mux.HandleFunc("DELETE /api/payments/{id}", auth.Manager(handler.delete))
}

func applyPayment(payment *models.Payment, payload dto.PaymentDto) {
	payment.LeaseID = payload.LeaseID
	payment.Amount = payload.Amount
	payment.DueDate = payload.DueDate.Time
	payment.Method = payload.Method
	payment.Notes = payload.Notes
	if payload.Reference != "" {
		payment.Reference = payload.Reference
	}
	if payment.Reference == "" {
		payment.Reference = uuid.NewString()
	}
}

func (p *PaymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.PaymentDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	db := p.db.WithContext(r.Context())
	if err := mustExist(db, &models.Lease{}, payload.LeaseID, "lease"); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	payment := models.Payment{Status: models.PaymentPending}
	applyPayment(&payment, payload)
	config.Config.Logger.Infof("New request to record payment %s for lease %d", payment.Reference, payment.LeaseID)
	if err := db.Create(&payment).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, payment)
}

func (p *PaymentHandler) update(w http.ResponseWriter, r *http.Request) {
	db := p.db.WithContext(r.Context())
	var payment models.Payment
	if _, ok := loadByID(w, r, db, &payment); !ok {
		return
	}
	var payload dto.PaymentDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if err := mustExist(db, &models.Lease{}, payload.LeaseID, "lease"); err != nil {
		helper.WriteDbError(w, err)
		return
	}
	applyPayment(&payment, payload)
	if err := db.Save(&payment).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, payment)
}

func (p *PaymentHandler) pay(w http.ResponseWriter, r *http.Request) {
	db := p.db.WithContext(r.Context())
	var payment models.Payment
	if _, ok := loadByID(w, r, db, &payment); !ok {
		return
	}
	var payload dto.PayPaymentDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if payment.Status == models.PaymentPaid {
		helper.WriteJsonError(w, http.StatusConflict, "payment is already paid")
		return
	}
	paidAt := time.Now().UTC()
	if t := payload.PaidAt.Ptr(); t != nil {
		paidAt = *t
	}
	payment.Status = models.PaymentPaid
	payment.PaidAt = &paidAt
	payment.Method = payload.Method
	err := db.Model(&payment).Updates(map[string]any{
		"status":  payment.Status,
		"paid_at": paidAt,
		"method":  payment.Method,
	}).Error
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	config.Config.Logger.Infof("Payment %s marked paid", payment.Reference)
	helper.WriteJson(w, http.StatusOK, payment)
}

func (p *PaymentHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	q := r.URL.Query()
	query := p.db.WithContext(r.Context()).Model(&models.Payment{})
	query = helper.Search(query, page.Search, "reference", "method", "notes")
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if leaseID := q.Get("lease_id"); leaseID != "" {
		query = query.Where("lease_id = ?", leaseID)
	}
	var payments []models.Payment
	response, err := helper.Paginate(query, page, &payments, "Lease.Unit", "Lease.Tenant")
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (p *PaymentHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	db := p.db.WithContext(r.Context()).Preload("Lease.Unit").Preload("Lease.Tenant")
	if _, ok := loadByID(w, r, db, &payment); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, payment)
}

func (p *PaymentHandler) delete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, p.db.WithContext(r.Context()), &models.Payment{}, "payment")
}
