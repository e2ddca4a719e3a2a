package handlers

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"property-service/config"
	"property-service/helper"
	"property-service/models"
	"property-service/scripts"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	managerEmail    = "manager@example.com"
	managerPassword = "manager-password"
	staffEmail      = "staff@example.com"
	staffPassword   = "staff-password"
)

var (
	keysOnce sync.Once
	testKeys *helper.KeyPair
)

func signingKeys(t *testing.T) *helper.KeyPair {
	t.Helper()
	keysOnce.Do(func() {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKeys, err = helper.KeyPairFromRSA(priv)
		if err != nil {
			panic(err)
		}
	})
	return testKeys
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	manager []*http.Cookie
	staff   []*http.Cookie
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	config.Config.Logger = zap.NewNop().Sugar()
	config.Config.RefreshTokenSecret = "test-refresh-secret"
	config.Config.ManagementFeePercent = 10
	config.Config.AppURL = "http://localhost:5173"

	db := setupTestDB(t)
	_, err := scripts.SeedAccounts(db, []scripts.SeedAccount{
		{Email: managerEmail, Password: managerPassword, FirstName: "Mia", LastName: "Manager", Role: models.ManagerRole},
		{Email: staffEmail, Password: staffPassword, FirstName: "Sam", LastName: "Staff", Role: models.StaffRole},
	})
	require.NoError(t, err)

	env := &testEnv{t: t, db: db, handler: NewRouter(db, signingKeys(t))}
	env.manager = env.login(managerEmail, managerPassword)
	env.staff = env.login(staffEmail, staffPassword)
	return env
}

func (e *testEnv) login(email, password string) []*http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func (e *testEnv) do(method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// create posts body as the manager and returns the decoded object.
func (e *testEnv) create(path string, body any) map[string]any {
	e.t.Helper()
	rec := e.do(http.MethodPost, path, body, e.manager)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(e.t, rec)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func idOf(m map[string]any) uint {
	return uint(m["ID"].(float64))
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode(t, rec)["error"].(string)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
