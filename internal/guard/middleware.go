package guard

import (
	"net/http"

	"github.com/hitoshi/workerhub/internal/metrics"
)

// LoginStateFunc はリクエストのログイン状態を返す関数。
// セッションミドルウェアが注入したSessionを読む実装を渡す。
type LoginStateFunc func(r *http.Request) bool

// Middleware は保護設定pに従ってページ表示またはリダイレクトを行うミドルウェアを返す。
// リダイレクトは303 See Otherで、POST送信後でもGETで遷移させる。
func Middleware(p Protection, loggedIn LoginStateFunc, collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	collector = metrics.OrNop(collector)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(p, loggedIn(r))
			collector.RecordGuardDecision(p.String(), d.Outcome())
			if !d.Render {
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
