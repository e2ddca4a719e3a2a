package scripts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"property-service/helper"
	"property-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGenerateKeysAndJwks(t *testing.T) {
	dir := t.TempDir()

	privPath, err := GenerateRsaKeys(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "private.pem"), privPath)
	assert.FileExists(t, filepath.Join(dir, "public.pem"))

	_, err = GenerateRsaKeys(dir, false)
	assert.ErrorContains(t, err, "already exists")
	_, err = GenerateRsaKeys(dir, true)
	require.NoError(t, err)

	keys, err := helper.LoadKeyPair(privPath)
	require.NoError(t, err)
	require.NotNil(t, keys.Public)

	jwksPath := filepath.Join(dir, "public", ".well-known", "jwks.json")
	require.NoError(t, WriteJwks(privPath, jwksPath))
	raw, err := os.ReadFile(jwksPath)
	require.NoError(t, err)
	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(raw, &set))
	require.Len(t, set.Keys, 1)
	assert.Equal(t, "RSA", set.Keys[0]["kty"])
	assert.Equal(t, "sig", set.Keys[0]["use"])
	assert.NotContains(t, set.Keys[0], "d")
}

func TestSeedAccounts(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	accounts := []SeedAccount{
		{Email: "manager@example.com", Password: "manager-password", FirstName: "Mia", LastName: "Manager", Role: models.ManagerRole},
		{Email: "staff@example.com", Password: "", FirstName: "Sam", LastName: "Staff", Role: models.StaffRole},
	}
	created, err := SeedAccounts(db, accounts)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = SeedAccounts(db, accounts)
	require.NoError(t, err)
	assert.Zero(t, created)

	var user models.User
	require.NoError(t, db.Where("email = ?", "manager@example.com").First(&user).Error)
	assert.Equal(t, models.ManagerRole, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("manager-password")))
}
