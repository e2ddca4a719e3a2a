package handlers

import (
	"net/http"
	"testing"
	"time"

	"property-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaseBody(unitID, tenantID uint, start, end string) map[string]any {
	return map[string]any{
		"unit_id":      unitID,
		"tenant_id":    tenantID,
		"start_date":   start,
		"end_date":     end,
		"monthly_rent": 1200,
		"deposit":      2400,
	}
}

func unitStatus(t *testing.T, env *testEnv, id uint) models.UnitStatus {
	t.Helper()
	var unit models.Unit
	require.NoError(t, env.db.First(&unit, id).Error)
	return unit.Status
}

func TestLeaseOccupiesUnit(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))

	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-12-31"))
	assert.Equal(t, "active", lease["status"])
	assert.Equal(t, models.UnitOccupied, unitStatus(t, env, idOf(unit)))

	rec := env.do(http.MethodGet, "/api/leases/"+itoa(idOf(lease)), nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "1A", body["unit"].(map[string]any)["number"])
	assert.Equal(t, "tara", body["tenant"].(map[string]any)["first_name"])

	rec = env.do(http.MethodGet, "/api/leases?q=tara", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = env.do(http.MethodGet, "/api/leases", nil, env.staff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaseValidation(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	other := env.create("/api/tenants", tenantBody("otto", "Other"))
	env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-12-31"))

	rec := env.do(http.MethodPost, "/api/leases", leaseBody(idOf(unit), idOf(other), "2025-06-01", "2026-05-31"), env.manager)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/leases", leaseBody(idOf(unit), idOf(other), "2026-01-01", "2025-12-31"), env.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "end_date must be after start_date", errorOf(t, rec))

	rec = env.do(http.MethodPost, "/api/leases", leaseBody(idOf(unit), 999, "2026-01-01", "2026-12-31"), env.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "tenant 999 does not exist", errorOf(t, rec))

	body := leaseBody(idOf(unit), idOf(other), "2026-01-01", "2026-12-31")
	body["monthly_rent"] = 0
	rec = env.do(http.MethodPost, "/api/leases", body, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// back to back leases do not overlap
	env.create("/api/leases", leaseBody(idOf(unit), idOf(other), "2025-12-31", "2026-12-31"))
}

func TestLeaseTerminateReleasesUnit(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	future := time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", future))

	rec := env.do(http.MethodPost, "/api/leases/"+itoa(idOf(lease))+"/terminate", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "terminated", decode(t, rec)["status"])
	assert.Equal(t, models.UnitVacant, unitStatus(t, env, idOf(unit)))

	var stored models.Lease
	require.NoError(t, env.db.First(&stored, idOf(lease)).Error)
	assert.False(t, stored.EndDate.After(time.Now().UTC()))

	rec = env.do(http.MethodPost, "/api/leases/"+itoa(idOf(lease))+"/terminate", nil, env.manager)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLeaseUpdateMovesUnit(t *testing.T) {
	env := newTestEnv(t)
	first := env.create("/api/units", unitBody("1A"))
	second := env.create("/api/units", unitBody("1B"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	lease := env.create("/api/leases", leaseBody(idOf(first), idOf(tenant), "2025-01-01", "2025-12-31"))

	rec := env.do(http.MethodPut, "/api/leases/"+itoa(idOf(lease)), leaseBody(idOf(second), idOf(tenant), "2025-01-01", "2025-12-31"), env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.UnitVacant, unitStatus(t, env, idOf(first)))
	assert.Equal(t, models.UnitOccupied, unitStatus(t, env, idOf(second)))
}

func TestLeaseDeleteCascadesPayments(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-12-31"))
	env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 1200, "due_date": "2025-01-05"})

	rec := env.do(http.MethodDelete, "/api/leases/"+itoa(idOf(lease)), nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.UnitVacant, unitStatus(t, env, idOf(unit)))

	var payments int64
	require.NoError(t, env.db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Zero(t, payments)
}

func TestPayments(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-12-31"))

	payment := env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 1200, "due_date": "2025-02-01"})
	assert.Equal(t, "pending", payment["status"])
	assert.NotEmpty(t, payment["reference"])
	assert.Nil(t, payment["paid_at"])

	named := env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 1200, "due_date": "2025-03-01", "reference": "INV-0003"})
	assert.Equal(t, "INV-0003", named["reference"])

	rec := env.do(http.MethodPost, "/api/payments", map[string]any{"lease_id": 999, "amount": 10, "due_date": "2025-03-01"}, env.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	path := "/api/payments/" + itoa(idOf(payment)) + "/pay"
	rec = env.do(http.MethodPost, path, map[string]any{"method": "bitcoin"}, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, path, map[string]any{"method": "bank_transfer", "paid_at": "2025-02-03"}, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode(t, rec)
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, "bank_transfer", paid["method"])
	assert.Contains(t, paid["paid_at"], "2025-02-03")

	rec = env.do(http.MethodPost, path, map[string]any{"method": "cash"}, env.manager)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/payments?status=paid", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].([]any)
	require.Len(t, data, 1)
	nested := data[0].(map[string]any)["lease"].(map[string]any)
	assert.Equal(t, "1A", nested["unit"].(map[string]any)["number"])

	rec = env.do(http.MethodGet, "/api/payments?q=inv-0003", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)
}

func TestLeaseTerminateBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	now := time.Now().UTC()
	start := now.AddDate(0, 2, 0).Format("2006-01-02")
	end := now.AddDate(1, 2, 0).Format("2006-01-02")
	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), start, end))

	rec := env.do(http.MethodPost, "/api/leases/"+itoa(idOf(lease))+"/terminate", nil, env.manager)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "lease has not started yet, delete it instead", errorOf(t, rec))

	var stored models.Lease
	require.NoError(t, env.db.First(&stored, idOf(lease)).Error)
	assert.Equal(t, models.LeaseActive, stored.Status)
	assert.True(t, stored.EndDate.After(stored.StartDate))
	assert.Equal(t, models.UnitOccupied, unitStatus(t, env, idOf(unit)))
}

func TestLeaseUpdateChecksReferencesWhenInactive(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-12-31"))
	path := "/api/leases/" + itoa(idOf(lease))

	rec := env.do(http.MethodPost, path+"/terminate", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPut, path, leaseBody(999, idOf(tenant), "2025-01-01", "2025-06-30"), env.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unit 999 does not exist", errorOf(t, rec))

	rec = env.do(http.MethodPut, path, leaseBody(idOf(unit), 888, "2025-01-01", "2025-06-30"), env.manager)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "tenant 888 does not exist", errorOf(t, rec))

	var stored models.Lease
	require.NoError(t, env.db.First(&stored, idOf(lease)).Error)
	assert.Equal(t, idOf(unit), stored.UnitID)
	assert.Equal(t, idOf(tenant), stored.TenantID)

	// an inactive lease is not held to the overlap rule
	other := env.create("/api/tenants", tenantBody("otto", "Other"))
	env.create("/api/leases", leaseBody(idOf(unit), idOf(other), "2025-03-01", "2025-12-31"))
	rec = env.do(http.MethodPut, path, leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2025-06-30"), env.manager)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
