package handlers

import (
	"errors"
	"net/http"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func SetupUserRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := UserHandler{db: db}
	mux.HandleFunc("GET /api/users", auth.Manager(handler.getAll))
	mux.HandleFunc("POST /api/users", auth.Manager(handler.create))
	mux.HandleFunc("DELETE /api/users/{id}", auth.Manager(handler.delete))
}

// createUser hashes the password and inserts the account. A taken email is
// a 409.
func createUser(db *gorm.DB, payload dto.CreateUserDto) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", payload.Email).First(&existing).Error
	if err == nil {
		return nil, helper.Conflict("user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:     payload.Email,
		Password:  string(hash),
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      models.RoleType(payload.Role),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dto.CreateUserDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}
	config.Config.Logger.Infof("New request to create %s account for email: %s", payload.Role, payload.Email)
	user, err := createUser(u.db.WithContext(r.Context()), payload)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusCreated, userBody(user))
}

func (u *UserHandler) getAll(w http.ResponseWriter, r *http.Request) {
	page := helper.ParsePage(r)
	query := u.db.WithContext(r.Context()).Model(&models.User{})
	query = helper.Search(query, page.Search, "first_name", "last_name", "email")
	if role := r.URL.Query().Get("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	response, err := helper.Paginate(query, page, &users)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	helper.WriteJson(w, http.StatusOK, response)
}

func (u *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helper.PathID(r)
	if !ok {
		helper.WriteJsonError(w, http.StatusBadRequest, "invalid id in the path")
		return
	}
	if current := middlewares.GetUserFromContext(r.Context()); current != nil && current.ID == id {
		helper.WriteJsonError(w, http.StatusConflict, "cannot delete your own account")
		return
	}
	err := u.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Staff{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Delete(&models.User{}, id)
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
	config.Config.Logger.Infof("User %d deleted", id)
	helper.WriteJson(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
