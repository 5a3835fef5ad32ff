package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/usersapi/internal/metrics"
	"github.com/hitoshi/usersapi/internal/middleware"
	"github.com/hitoshi/usersapi/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	// TrustProxyはリバースプロキシ配下でのみtrueにする。
	// trueの場合、X-Forwarded-For/X-Real-IPを送信元IPとして扱い、ログとレート制限のキーに使う。
	TrustProxy bool
	RateLimiter       *middleware.RateLimiter // nilの場合はレート制限しない
	Metrics           *metrics.Collector      // nilの場合はメトリクスを収集しない
	MetricsHandler    http.Handler            // nilの場合は/metricsを公開しない

	// ユーザー
	UserService UserServiceInterface

	// ヘルスチェック
	Environment string

	// APIドキュメント
	Docs *DocsHandler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP（TrustProxy時のみ） → Logging → Recovery → Metrics → SecurityHeaders → CORS
//
// レート制限は/usersのみに適用し、/healthと/metricsはプローブやスクレイプのため対象外とする。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     "ROUTE_NOT_FOUND",
			Message:  "Cannot " + r.Method + " " + r.URL.Path,
			Category: "system",
			Action:   "Check the request path.",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, &model.APIError{
			Code:     "METHOD_NOT_ALLOWED",
			Message:  "Method " + r.Method + " is not allowed for " + r.URL.Path,
			Category: "system",
			Action:   "Check the request method.",
		})
	})

	// --- 運用系ルート ---
	healthHandler := NewHealthHandler(deps.Environment)
	r.Get("/health", healthHandler.Health)

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	if deps.Docs != nil {
		r.Get(DocsJSONPath, deps.Docs.Spec)
		r.Get(DocsUIPath, deps.Docs.UI)
	}

	// --- ユーザーAPI ---
	userHandler := NewUserHandler(deps.UserService)
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		mountUserRoutes(r, userHandler)
	})

	return r
}
