package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/beneficiarios/internal/middleware"
	"github.com/hitoshi/beneficiarios/internal/repository"
)

// healthCheckTimeout はDB疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// HealthHandler はプロセスとDBの稼働状況を返すハンドラー。
type HealthHandler struct {
	db repository.Pinger
}

// NewHealthHandler はHealthHandlerを生成する。dbがnilの場合はDB確認を省略する。
func NewHealthHandler(db repository.Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health はDBに疎通できれば200、できなければ503を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		middleware.WriteSuccess(w, http.StatusOK, healthResponse{Status: "up", Database: "not_configured"}, "OK")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("health check: database ping failed", slog.String("error", err.Error()))
		middleware.WriteJSON(w, http.StatusServiceUnavailable, middleware.Envelope[healthResponse]{
			Success: false,
			Data:    healthResponse{Status: "down", Database: "down"},
			Message: "Base de datos no disponible",
		})
		return
	}

	middleware.WriteSuccess(w, http.StatusOK, healthResponse{Status: "up", Database: "up"}, "OK")
}
