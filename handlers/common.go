package handlers

import (
	"fmt"
	"net/http"
	"time"

	"property-service/helper"

	"gorm.io/gorm"
)

// mustExist turns a missing referenced row into a 422 naming the field.
func mustExist(db *gorm.DB, model any, id uint, field string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return helper.Invalid(fmt.Sprintf("%s %d does not exist", field, id))
	}
	return nil
}

func mustExistOptional(db *gorm.DB, model any, id *uint, field string) error {
	if id == nil || *id == 0 {
		return nil
	}
	return mustExist(db, model, *id, field)
}

// loadByID writes a 400 for a malformed id and a 404 for a missing row.
func loadByID(w http.ResponseWriter, r *http.Request, db *gorm.DB, dest any) (uint, bool) {
	id, ok := helper.PathID(r)
	if !ok {
		helper.WriteJsonError(w, http.StatusBadRequest, "invalid id in the path")
		return 0, false
	}
	if err := db.First(dest, id).Error; err != nil {
		helper.WriteDbError(w, err)
		return 0, false
	}
	return id, true
}

func deleteByID(w http.ResponseWriter, r *http.Request, db *gorm.DB, model any, name string) {
	id, ok := helper.PathID(r)
	if !ok {
		helper.WriteJsonError(w, http.StatusBadRequest, "invalid id in the path")
		return
	}
	result := db.Delete(model, id)
	if result.Error != nil {
		helper.WriteDbError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		helper.WriteJsonError(w, http.StatusNotFound, "record not found")
		return
	}
	helper.WriteJson(w, http.StatusOK, map[string]string{"message": name + " deleted successfully"})
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
