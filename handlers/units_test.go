package handlers

import (
	"net/http"
	"testing"

	"property-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBody(number string) map[string]any {
	return map[string]any{
		"number":    number,
		"building":  "Harbor View",
		"address":   "12 Pier Road",
		"type":      "apartment",
		"bedrooms":  2,
		"bathrooms": 1.5,
		"size_sqft": 850,
		"rent":      1200,
	}
}

func TestUnitCRUD(t *testing.T) {
	env := newTestEnv(t)

	created := env.create("/api/units", unitBody("1A"))
	id := idOf(created)
	assert.Equal(t, "vacant", created["status"])
	assert.Equal(t, "1A", created["number"])

	rec := env.do(http.MethodGet, "/api/units/"+itoa(id), nil, env.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Harbor View", decode(t, rec)["building"])

	update := unitBody("1A")
	update["rent"] = 1350
	update["status"] = "maintenance"
	rec = env.do(http.MethodPut, "/api/units/"+itoa(id), update, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)
	assert.EqualValues(t, 1350, updated["rent"])
	assert.Equal(t, "maintenance", updated["status"])

	rec = env.do(http.MethodDelete, "/api/units/"+itoa(id), nil, env.manager)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodGet, "/api/units/"+itoa(id), nil, env.manager)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(http.MethodDelete, "/api/units/"+itoa(id), nil, env.manager)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnitValidation(t *testing.T) {
	env := newTestEnv(t)

	body := unitBody("")
	rec := env.do(http.MethodPost, "/api/units", body, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "number")

	body = unitBody("2B")
	body["status"] = "demolished"
	rec = env.do(http.MethodPost, "/api/units", body, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = unitBody("2B")
	body["owner_id"] = 999
	rec = env.do(http.MethodPost, "/api/units", body, env.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "owner 999 does not exist", errorOf(t, rec))

	rec = env.do(http.MethodGet, "/api/units/abc", nil, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnitListSearchAndPagination(t *testing.T) {
	env := newTestEnv(t)
	for _, number := range []string{"101", "102", "103", "201", "202"} {
		env.create("/api/units", unitBody(number))
	}
	penthouse := unitBody("PH1")
	penthouse["building"] = "Skyline Tower"
	env.create("/api/units", penthouse)

	rec := env.do(http.MethodGet, "/api/units?per_page=2&current_page=2", nil, env.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["data"], 2)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 6, pagination["total"])
	assert.EqualValues(t, 3, pagination["total_pages"])
	assert.EqualValues(t, 2, pagination["current_page"])

	rec = env.do(http.MethodGet, "/api/units?q=skyline", nil, env.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "PH1", data[0].(map[string]any)["number"])

	rec = env.do(http.MethodGet, "/api/units?status=occupied", nil, env.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["data"])
}

func TestUnitDeleteWithActiveLease(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("3C"))
	tenant := env.create("/api/tenants", tenantBody("Tara", "Tenant"))
	env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-12-31"))

	rec := env.do(http.MethodDelete, "/api/units/"+itoa(idOf(unit)), nil, env.manager)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var stored models.Unit
	require.NoError(t, env.db.First(&stored, idOf(unit)).Error)
	assert.Equal(t, models.UnitOccupied, stored.Status)
}

func TestOwnerCRUD(t *testing.T) {
	env := newTestEnv(t)

	owner := env.create("/api/owners", map[string]any{"name": "Olive Owner", "email": "olive@example.com", "revenue_share": 80})
	ownerID := idOf(owner)
	unit := unitBody("4D")
	unit["owner_id"] = ownerID
	created := env.create("/api/units", unit)

	rec := env.do(http.MethodGet, "/api/owners/"+itoa(ownerID), nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	units := decode(t, rec)["units"].([]any)
	assert.Len(t, units, 1)

	rec = env.do(http.MethodGet, "/api/units?owner_id="+itoa(ownerID), nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = env.do(http.MethodPost, "/api/owners", map[string]any{"name": "Greedy", "revenue_share": 120}, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/api/owners/"+itoa(ownerID), nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Unit
	require.NoError(t, env.db.First(&stored, idOf(created)).Error)
	assert.Nil(t, stored.OwnerID)
}

func tenantBody(first, last string) map[string]any {
	return map[string]any{
		"first_name": first,
		"last_name":  last,
		"email":      first + "@example.com",
		"phone":      "555-0100",
	}
}

func TestTenantCRUD(t *testing.T) {
	env := newTestEnv(t)

	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	id := idOf(tenant)
	env.create("/api/tenants", tenantBody("bob", "Builder"))

	rec := env.do(http.MethodGet, "/api/tenants?q=BUILD", nil, env.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	update := tenantBody("tara", "Renamed")
	rec = env.do(http.MethodPut, "/api/tenants/"+itoa(id), update, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode(t, rec)["last_name"])

	rec = env.do(http.MethodPut, "/api/tenants/"+itoa(id), update, env.staff)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/api/tenants", map[string]any{"first_name": "x", "last_name": "y", "email": "nope"}, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/api/tenants/"+itoa(id), nil, env.manager)
	assert.Equal(t, http.StatusOK, rec.Code)
}
