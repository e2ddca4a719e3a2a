package handlers

import (
	"fmt"
	"net/http"

	"property-service/config"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

// NewRouter registers every route and wraps the mux with the outer
// middlewares.
func NewRouter(db *gorm.DB, keys *helper.KeyPair) http.Handler {
	mux := http.NewServeMux()
	auth := &middlewares.AuthMiddleware{Db: db, Keys: keys}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Api is healthy")
	})

	SetupAuthRoutes(mux, db, auth)
	SetupUserRoutes(mux, db, auth)
	SetupDashboardRoutes(mux, db, auth)
	SetupOwnerRoutes(mux, db, auth)
	SetupUnitRoutes(mux, db, auth)
	SetupTenantRoutes(mux, db, auth)
	SetupLeaseRoutes(mux, db, auth)
	SetupPaymentRoutes(mux, db, auth)
	SetupRequestRoutes(mux, db, auth, models.MaintenanceRequest)
	SetupRequestRoutes(mux, db, auth, models.CleaningRequest)
	SetupStaffRoutes(mux, db, auth)
	SetupReviewRoutes(mux, db, auth)
	SetupReservationRoutes(mux, db, auth)
	SetupReportRoutes(mux, db, auth)

	return middlewares.Wrap(mux,
		func(next http.Handler) http.Handler { return otelhttp.NewHandler(next, config.AppName) },
		middlewares.RequestLogger,
		middlewares.CORS(config.Config.AppURL),
	)
}
