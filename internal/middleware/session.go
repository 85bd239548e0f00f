package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/workerhub/internal/metrics"
	"github.com/hitoshi/workerhub/internal/session"
	"github.com/hitoshi/workerhub/internal/tokenstore"
)

// SessionConfig はセッションミドルウェアの設定。
type SessionConfig struct {
	Cookie        tokenstore.CookieConfig
	Authenticator session.Authenticator
	Metrics       metrics.MetricsCollector
	Logger        *slog.Logger
}

// NewSessionMiddleware はリクエストごとにトークンCookieを読み取るセッションを生成し、
// 初期化してからリクエストコンテキストに注入するミドルウェアを返す。
// 未ログインでもリクエストは拒否しない。画面ごとの可否はルートガードが判断する。
func NewSessionMiddleware(config SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := tokenstore.NewCookieStore(w, r, config.Cookie)

			s := session.New(store, config.Authenticator,
				session.WithMetrics(config.Metrics),
				session.WithLogger(config.Logger),
			)
			s.Init()

			attachSession(r.Context(), s)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// LoggedIn はリクエストに紐づくセッションのログイン状態を返す。
// セッションミドルウェアを通過していないリクエストは未ログインとして扱う。
func LoggedIn(r *http.Request) bool {
	s, ok := session.FromContext(r.Context())
	return ok && s.LoggedIn()
}
