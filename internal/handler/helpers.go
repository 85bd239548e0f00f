package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/session"
)

// 画面に表示する固定メッセージ
const (
	msgSignedIn       = "ログインしました。"
	msgSignedOut      = "ログアウトしました。"
	msgSignedUp       = "登録が完了しました。ログインしてください。"
	msgContactSent    = "お問い合わせを送信しました。"
	msgProfileSaved   = "プロフィールを保存しました。"
	msgRoleSwitched   = "種別を切り替えました。"
	msgAddressFilled  = "現在地から住所を入力しました。内容を確認して保存してください。"
	msgSessionExpired = "ログインの有効期限が切れました。再度ログインしてください。"
	msgSearchSignIn   = "ワーカーを検索するにはログインしてください。"
)

// statusForError はバックエンドエラーを画面再表示時のステータスコードに変換する。
func statusForError(err error) int {
	apiErr := model.AsAPIError(err)
	if apiErr == nil {
		return http.StatusOK
	}
	switch apiErr.Kind {
	case model.KindAuth, model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindConflict:
		return http.StatusConflict
	case model.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// requireSession はリクエストに注入されたセッションを返す。
// セッションミドルウェアを通過していない場合は500を返してfalseとなる。
func requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		slog.Error("session not found in request context", slog.String("path", r.URL.Path))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

// isAuthFailure はトークンがバックエンドに拒否された（期限切れ等）かどうかを返す。
func isAuthFailure(err error) bool {
	apiErr := model.AsAPIError(err)
	return apiErr != nil && apiErr.Kind == model.KindAuth
}
