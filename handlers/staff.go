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

type StaffHandler struct {
	db *gorm.DB
}

func SetupStaffRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := StaffHandler{db: db}
	mux.HandleFunc("GET /api/staff", auth.Manager(handler.getAll))
	mux.HandleFunc("GET /api/staff/{id}", auth.Manager(handler.getOne))
	mux.HandleFunc("POST /api/staff", auth.Manager(handler.create))
	mux.HandleFunc("PUT /api/staff/{id}", auth.Manager(handler.update))
	mux.HandleFunc("DELETE /api/staff/{id}", auth.Manager(handler.delete))
}

func applyStaff(staff *models.Staff, payload dto.StaffDto) {
	staff.FirstName = payload.FirstName
	staff.LastName = payload.LastName
	staff.Email = payload.Email
	staff.Phone = payload.Phone
	staff.Position = payload.Position
	staff.Salary = payload.Salary
	staff.HiredAt = payload.HiredAt.Time
	if payload.Status != "" {
		staff.Status = payload.Status
	}
	if staff.Status == "" {
		staff.Status = "active"
	}
}

func (s *StaffHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.StaffDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if payload.CreateAccount && (payload.Email == "" || payload.Password == "") {
		helper.WriteJsonError(w, http.StatusBadRequest, "email and password are required to create an account")
		return
	}
	config.Config.Logger.Infof("New request to create staff member: %s %s", payload.FirstName, payload.LastName)
	var staff models.Staff
	applyStaff(&staff, payload)
	err := s.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if payload.CreateAccount {
			user, err := createUser(tx, dto.CreateUserDto{
				FirstName: payload.FirstName,
				LastName:  payload.LastName,
				Role:      string(models.StaffRole),
				Email:     payload.Email,
				Password:  payload.Password,
			})
			if err != nil {
				return err
			}
			staff.UserID = &user.ID
		}
		return tx.Create(&staff).Error
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, staff)
}

func (s *StaffHandler) update(w http.ResponseWriter, r *http.Request) {
	db := s.db.WithContext(r.Context())
	var staff models.Staff
	if _, ok := loadByID(w, r, db, &staff); !ok {
		return
	}
	var payload dto.StaffDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	if payload.CreateAccount {
		helper.WriteJsonError(w, http.StatusBadRequest, "accounts can only be created with the staff record")
		return
	}
	applyStaff(&staff, payload)
	if err := db.Save(&staff).Error; err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, staff)
}

func (s *StaffHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	query := s.db.WithContext(r.Context()).Model(&models.Staff{})
	query = helper.Search(query, page.Search, "first_name", "last_name", "email", "position")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var staff []models.Staff
	response, err := helper.Paginate(query, page, &staff)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (s *StaffHandler) getOne(w http.ResponseWriter, r *http.Request) {
	var staff models.Staff
	if _, ok := loadByID(w, r, s.db.WithContext(r.Context()), &staff); !ok {
		return
	}
	helper.WriteJson(w, http.StatusOK, staff)
}

// delete removes the record, its login and unassigns its open requests.
func (s *StaffHandler) delete(w http.ResponseWriter, r *http.Request) {
	db := s.db.WithContext(r.Context())
	var staff models.Staff
	if _, ok := loadByID(w, r, db, &staff); !ok {
		return
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ServiceRequest{}).
			Where("assigned_staff_id = ? AND status IN ?", staff.ID, []models.RequestStatus{models.RequestPending, models.RequestInProgress}).
			Update("assigned_staff_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&staff).Error; err != nil {
			return err
		}
		if staff.UserID == nil {
			return nil
		}
		if err := tx.Unscoped().Where("user_id = ?", *staff.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, *staff.UserID).Error
	})
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, map[string]string{"message": "staff deleted successfully"})
}
