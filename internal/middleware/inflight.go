package middleware

import (
	"log/slog"
	"net/http"
	"sync"
)

// InFlight はクライアントとフォームのパスごとに処理中の送信を1件に制限する。
// 同じ組み合わせの送信が処理中の場合は409 Conflictを返す。
type InFlight struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

// NewInFlight は新しいInFlightを生成する。
func NewInFlight() *InFlight {
	return &InFlight{pending: make(map[string]struct{})}
}

// MessageDuplicateSubmit は二重送信を拒否したときのメッセージ。
const MessageDuplicateSubmit = "送信処理中です。完了までお待ちください。"

// Middleware は二重送信防止ミドルウェアを返す。安全なメソッドは対象外。
// 処理完了時の解放は、ハンドラーがpanicした場合も必ず行われる。
func (f *InFlight) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientKey(r) + " " + r.URL.Path
			if !f.acquire(key) {
				slog.Warn("duplicate submission rejected",
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFromContext(r.Context())),
				)
				WriteErrorResponse(w, http.StatusConflict, MessageDuplicateSubmit)
				return
			}
			defer f.release(key)

			next.ServeHTTP(w, r)
		})
	}
}

// Pending は処理中の送信件数を返す。
func (f *InFlight) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *InFlight) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.pending[key]; busy {
		return false
	}
	f.pending[key] = struct{}{}
	return true
}

func (f *InFlight) release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, key)
}
