package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/workerhub/internal/guard"
	"github.com/hitoshi/workerhub/internal/metrics"
	"github.com/hitoshi/workerhub/internal/middleware"
)

// Backend はページが利用するバックエンド操作をまとめたインターフェース。
// backend.Clientが満たす。
type Backend interface {
	SignupService
	ContactService
	ProfileService
	WorkerService
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Backend  Backend
	Renderer *Renderer
	Logger   *slog.Logger

	// ミドルウェア依存
	Session       middleware.SessionConfig
	CSRF          middleware.CSRFConfig
	RateLimiter   *middleware.RateLimiter
	InFlight      *middleware.InFlight
	TrailingSlash string // "strip" または "redirect"

	// ルートガード
	Routes  *guard.Table
	Metrics metrics.MetricsCollector

	// /metrics で公開するハンドラー。nilの場合はルートを登録しない。
	MetricsHandler http.Handler
}

// NewRouter は全ページのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → RequestID → Logging → Recovery → SecurityHeaders → TrailingSlash
//	  → RateLimit(General) → Session → CSRF → RouteGuard → [RateLimit(Submit) → InFlight]
//
// /health と /metrics はセッションとルートガードの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	routes := deps.Routes
	if routes == nil {
		routes = guard.DefaultTable()
	}

	r.Use(chimw.RealIP)
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.TrailingSlash == "redirect" {
		r.Use(chimw.RedirectSlashes)
	} else {
		r.Use(chimw.StripSlashes)
	}

	// --- インフラ用ルート ---
	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.Backend, deps.Renderer)
	profileHandler := NewProfileHandler(deps.Backend, deps.Renderer)
	workerHandler := NewWorkerHandler(deps.Backend, deps.Renderer)
	contactHandler := NewContactHandler(deps.Backend, deps.Renderer)

	// guarded はパスの保護設定に従うルートガードを返す。
	guarded := func(path string) func(http.Handler) http.Handler {
		return guard.Middleware(routes.Lookup(path), middleware.LoggedIn, deps.Metrics)
	}

	// --- ページ ---
	// ミドルウェアスタック: RateLimit(General) → Session → CSRF
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}
		r.Use(middleware.NewSessionMiddleware(deps.Session))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRF))

		// フォーム送信には送信専用レート制限と二重送信防止を追加する
		submit := func(path string) chi.Router {
			mws := chi.Middlewares{guarded(path)}
			if deps.RateLimiter != nil {
				mws = append(mws, deps.RateLimiter.SubmitMiddleware())
			}
			if deps.InFlight != nil {
				mws = append(mws, deps.InFlight.Middleware())
			}
			return r.With(mws...)
		}

		r.With(guarded(guard.PathFindWorkers)).Get(guard.PathFindWorkers, workerHandler.FindWorkers)

		r.With(guarded(guard.PathSignIn)).Get(guard.PathSignIn, authHandler.SignInPage)
		submit(guard.PathSignIn).Post(guard.PathSignIn, authHandler.SignIn)

		r.With(guarded(guard.PathSignUp)).Get(guard.PathSignUp, authHandler.SignUpPage)
		submit(guard.PathSignUp).Post(guard.PathSignUp, authHandler.SignUp)

		submit(guard.PathSignOut).Post(guard.PathSignOut, authHandler.SignOut)

		r.With(guarded(guard.PathProfile)).Get(guard.PathProfile, profileHandler.Show)
		submit(guard.PathProfile).Post(guard.PathProfile, profileHandler.Save)
		submit(guard.PathProfileAddress).Post(guard.PathProfileAddress, profileHandler.FillAddress)
		submit(guard.PathProfileRole).Post(guard.PathProfileRole, profileHandler.SwitchRole)

		r.With(guarded(guard.PathContact)).Get(guard.PathContact, contactHandler.Page)
		submit(guard.PathContact).Post(guard.PathContact, contactHandler.Send)
	})

	return r
}
