package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/beneficiarios/internal/metrics"
	"github.com/hitoshi/beneficiarios/internal/middleware"
	"github.com/hitoshi/beneficiarios/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	Metrics            metrics.MetricsCollector
	// Gathererがnilの場合は/metricsを公開しない
	Gatherer prometheus.Gatherer
	// 開発環境では500応答のerrorsに内部エラーの内容を含める
	ExposeErrorDetail bool
	// trueの場合のみX-Forwarded-For / X-Real-IPでRemoteAddrを置き換える。
	// 信頼できるプロキシ配下でない限り、クライアントが任意にレート制限のキーを変えられる。
	TrustProxyHeaders bool

	// ヘルスチェック
	HealthChecker repository.Pinger

	// 身分証明書種別
	DocumentoService DocumentoServiceInterface

	// 受益者
	BeneficiarioService BeneficiarioServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP(TrustProxyHeaders時のみ) → Recovery → Logging → Metrics → SecurityHeaders → CORS → RateLimit(/apiのみ)
//
// /health と /metrics はレート制限の対象外とする。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.NewRecoveryMiddleware(logger, deps.ExposeErrorDetail))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteFailure(w, http.StatusNotFound, "Recurso no encontrado", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteFailure(w, http.StatusMethodNotAllowed, "Método no permitido", nil)
	})

	healthHandler := NewHealthHandler(deps.HealthChecker)
	documentoHandler := NewDocumentoHandler(deps.DocumentoService, deps.ExposeErrorDetail)
	beneficiarioHandler := NewBeneficiarioHandler(deps.BeneficiarioService, deps.ExposeErrorDetail)

	// --- 運用エンドポイント ---
	r.Get("/health", healthHandler.Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Route("/documentosidentidad", func(r chi.Router) {
			r.Get("/activos", documentoHandler.ListActivos)
			r.Get("/{id}", documentoHandler.GetByID)
		})

		r.Route("/beneficiarios", func(r chi.Router) {
			r.Get("/", beneficiarioHandler.List)
			r.Post("/", beneficiarioHandler.Create)
			r.Post("/validar", beneficiarioHandler.Validate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", beneficiarioHandler.Get)
				r.Put("/", beneficiarioHandler.Update)
				r.Delete("/", beneficiarioHandler.Delete)
			})
		})
	})

	return r
}
