package handlers

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"property-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedFinancials creates an owned unit with one paid and one pending payment
// and a completed maintenance job, all in February 2025.
func seedFinancials(t *testing.T, env *testEnv) {
	t.Helper()
	owner := env.create("/api/owners", map[string]any{"name": "Olive Owner", "revenue_share": 80})
	unit := unitBody("1A")
	unit["owner_id"] = idOf(owner)
	created := env.create("/api/units", unit)
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	lease := env.create("/api/leases", leaseBody(idOf(created), idOf(tenant), "2025-01-01", "2025-12-31"))

	paid := env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 1200, "due_date": "2025-02-01"})
	rec := env.do(http.MethodPost, "/api/payments/"+itoa(idOf(paid))+"/pay", map[string]any{"method": "cash", "paid_at": "2025-02-03"}, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 1200, "due_date": "2025-03-01"})

	job := requestBody(idOf(created), "Replace boiler")
	job["cost"] = 300
	request := env.create("/api/maintenance", job)
	completedAt := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&models.ServiceRequest{}).Where("id = ?", idOf(request)).
		Updates(map[string]any{"status": models.RequestCompleted, "completed_at": completedAt}).Error)
}

func TestReportJSON(t *testing.T) {
	env := newTestEnv(t)
	seedFinancials(t, env)

	rec := env.do(http.MethodGet, "/api/reports?from=2025-01&to=2025-03", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode(t, rec)

	assert.Equal(t, "2025-01", report["from"])
	assert.Equal(t, "2025-03", report["to"])
	assert.Equal(t, "Jan 2025 - Mar 2025", report["period"])
	assert.EqualValues(t, 1200, report["total_revenue"])
	assert.EqualValues(t, 300, report["total_expenses"])
	assert.EqualValues(t, 900, report["net_income"])
	assert.EqualValues(t, 100, report["occupancy_rate"])

	monthly := report["monthly"].([]any)
	require.Len(t, monthly, 3)
	february := monthly[1].(map[string]any)
	assert.Equal(t, "2025-02", february["key"])
	assert.EqualValues(t, 1200, february["revenue"])
	assert.EqualValues(t, 900, february["net"])
	assert.EqualValues(t, 0, monthly[0].(map[string]any)["revenue"])

	fee := report["management_fee"].(map[string]any)
	assert.EqualValues(t, 10, fee["share"])
	assert.EqualValues(t, 120, fee["amount"])

	owners := report["owners"].([]any)
	require.Len(t, owners, 1)
	owner := owners[0].(map[string]any)
	assert.Equal(t, "Olive Owner", owner["name"])
	assert.EqualValues(t, 960, owner["amount"])
	assert.EqualValues(t, 80, owner["percent"])
}

func TestReportOutsideWindowIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	seedFinancials(t, env)

	rec := env.do(http.MethodGet, "/api/reports?from=2024-01&to=2024-06", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode(t, rec)
	assert.EqualValues(t, 0, report["total_revenue"])
	assert.EqualValues(t, 0, report["management_fee"].(map[string]any)["percent"])
	assert.Len(t, report["monthly"], 6)
}

func TestReportRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/reports?from=January", nil, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/reports?format=docx", nil, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/reports?from=0001-01&to=9999-12&format=pdf", nil, env.manager)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "at most 120 allowed")

	rec = env.do(http.MethodGet, "/api/reports?from=2015-04&to=2025-03", nil, env.manager)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportExports(t *testing.T) {
	env := newTestEnv(t)
	seedFinancials(t, env)

	rec := env.do(http.MethodGet, "/api/reports?from=2025-01&to=2025-03&format=pdf", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report-2025-01-2025-03.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = env.do(http.MethodGet, "/api/reports?from=2025-01&to=2025-03&format=xlsx", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Monthly", "Owners"}, f.GetSheetList())
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	unit := env.create("/api/units", unitBody("1A"))
	env.create("/api/units", unitBody("1B"))
	env.create("/api/units", unitBody("1C"))
	tenant := env.create("/api/tenants", tenantBody("tara", "Tenant"))
	lease := env.create("/api/leases", leaseBody(idOf(unit), idOf(tenant), "2025-01-01", "2030-12-31"))
	env.create("/api/maintenance", requestBody(idOf(unit), "Leaking sink"))
	env.create("/api/reservations", reservationBody(idOf(unit), "Grace Guest", "2025-07-01", "2025-07-05"))

	paid := env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 1000, "due_date": "2025-02-01"})
	rec := env.do(http.MethodPost, "/api/payments/"+itoa(idOf(paid))+"/pay", map[string]any{"method": "card"}, env.manager)
	require.Equal(t, http.StatusOK, rec.Code)
	env.create("/api/payments", map[string]any{"lease_id": idOf(lease), "amount": 250, "due_date": "2025-03-01"})

	rec = env.do(http.MethodGet, "/api/dashboard", nil, env.manager)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	counts := body["counts"].(map[string]any)
	assert.EqualValues(t, 3, counts["units"])
	assert.EqualValues(t, 1, counts["occupied_units"])
	assert.EqualValues(t, 2, counts["vacant_units"])
	assert.EqualValues(t, 33.33, counts["occupancy_rate"])
	assert.EqualValues(t, 1, counts["active_leases"])
	assert.EqualValues(t, 1, counts["open_maintenance"])
	assert.EqualValues(t, 0, counts["open_cleaning"])
	assert.EqualValues(t, 1, counts["pending_reservations"])

	money := body["money"].(map[string]any)
	assert.EqualValues(t, 1000, money["collected_this_month"])
	assert.EqualValues(t, 250, money["outstanding"])
	assert.Len(t, money["recent_payments"], 1)
	assert.Len(t, money["revenue"], 6)

	rec = env.do(http.MethodGet, "/api/dashboard", nil, env.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	staffView := decode(t, rec)
	assert.NotContains(t, staffView, "money")
	assert.EqualValues(t, 3, staffView["counts"].(map[string]any)["units"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Api is healthy", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
