package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"property-service/config"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/reports"

	"gorm.io/gorm"
)

const defaultReportMonths = 6

type ReportHandler struct {
	db *gorm.DB
}

func SetupReportRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := ReportHandler{db: db}
	mux.HandleFunc("GET /api/reports", auth.Manager(handler.get))
}

// reportWindow reads from/to (YYYY-MM), defaulting to the last six months.
func reportWindow(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	from, to := reports.LastMonths(now, defaultReportMonths)
	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		t, err := reports.ParseMonth(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if s := q.Get("to"); s != "" {
		t, err := reports.ParseMonth(s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if err := reports.CheckWindow(from, to); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (h *ReportHandler) get(w http.ResponseWriter, r *http.Request) {
	from, to, err := reportWindow(r, time.Now().UTC())
	if err != nil {
		helper.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "pdf" && format != "xlsx" {
		helper.WriteJsonError(w, http.StatusBadRequest, "format must be one of [json pdf xlsx]")
		return
	}

	in, err := reports.Load(r.Context(), h.db, from, to, config.Config.ManagementFeePercent)
	if err != nil {
		helper.WriteDbError(w, err)
		return
	}
	report := reports.Build(in)
	config.Config.Logger.Infof("Generated %s report for %s", format, report.Period)

	if format == "json" {
		helper.WriteJson(w, http.StatusOK, report)
		return
	}

	var buf bytes.Buffer
	contentType := "application/pdf"
	if format == "pdf" {
		err = reports.WritePDF(&buf, report)
	} else {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = reports.WriteExcel(&buf, report)
	}
	if err != nil {
		config.Config.Logger.Errorf("Report export error: %v", err)
		helper.WriteJsonError(w, http.StatusInternalServerError, "report export failed")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s-%s.%s"`, report.From, report.To, format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
