package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/i18n"
	"github.com/diewo77/go-quotes/internal/format"
	"github.com/diewo77/go-quotes/internal/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
	log *zap.Logger
}

func NewDashboardHandler(svc *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, log: log}
}

type dashboardResponse struct {
	*services.Summary
	AcceptedFormatted format.Totals `json:"accepted_formatted"`
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboardResponse{
		Summary:           sum,
		AcceptedFormatted: format.FormatTotals(i18n.LangFrom(r.Context()), sum.Accepted),
	})
}

// Health reports liveness without touching the database.
func Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings the database.
func Ready(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
