package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const AppName = "property-service"

type AppConfig struct {
	ServerPort           string
	DBDriver             string
	DSN                  string
	DBPath               string
	Logger               *zap.SugaredLogger
	RefreshTokenSecret   string
	PrivateKeyPath       string
	AppURL               string
	ManagementFeePercent float64

	OtelEndpoint    string
	OtelInsecure    bool
	OtelSampleRatio float64

	SeedManagerEmail    string
	SeedManagerPassword string
	SeedStaffEmail      string
	SeedStaffPassword   string
}

var Config AppConfig

func init() {
	godotenv.Load()
	Dsn := fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v", os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	Config = AppConfig{
		ServerPort:           getEnv("PORT", "8080"),
		DBDriver:             getEnv("DB_DRIVER", "postgres"),
		DSN:                  Dsn,
		DBPath:               getEnv("DB_PATH", "property.db"),
		Logger:               newLogger(os.Getenv("LOG_LEVEL")),
		RefreshTokenSecret:   os.Getenv("REFRESH_TOKEN_SECRET"),
		PrivateKeyPath:       getEnv("PRIVATE_KEY_PATH", "certs/private.pem"),
		AppURL:               getEnv("APP_URL", "http://localhost:5173"),
		ManagementFeePercent: getEnvFloat("MANAGEMENT_FEE_PERCENT", 10),

		OtelEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelInsecure:    os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		OtelSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_RATIO", 1),

		SeedManagerEmail:    getEnv("SEED_MANAGER_EMAIL", "manager@example.com"),
		SeedManagerPassword: os.Getenv("SEED_MANAGER_PASSWORD"),
		SeedStaffEmail:      getEnv("SEED_STAFF_EMAIL", "staff@example.com"),
		SeedStaffPassword:   os.Getenv("SEED_STAFF_PASSWORD"),
	}
}

// OpenDB connects with the configured driver. sqlite is meant for local runs.
func OpenDB() (*gorm.DB, error) {
	switch Config.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(Config.DBPath), &gorm.Config{})
	case "postgres", "":
		return gorm.Open(postgres.Open(Config.DSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", Config.DBDriver)
	}
}

func newLogger(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	return zap.Must(cfg.Build()).Sugar()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
