// Package notice は画面上部に一時的に表示する通知を扱う。
//
// 通知はリダイレクトを跨いで1回だけ表示できるよう、フラッシュCookieに格納する。
package notice

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/security"
)

// Level は通知の表示レベル。
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// CookieName はフラッシュCookieの名前。
const CookieName = "flash"

// Notice は1件の通知。
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Success は成功通知を生成する。
func Success(message string) Notice {
	return Notice{Level: LevelSuccess, Message: message}
}

// Info は情報通知を生成する。
func Info(message string) Notice {
	return Notice{Level: LevelInfo, Message: message}
}

// Warning は警告通知を生成する。
func Warning(message string) Notice {
	return Notice{Level: LevelWarning, Message: message}
}

// FromError はエラーを通知に変換する。
// 競合と未ログインは警告、認証失敗と通信・サーバーエラーはエラーとして扱う。
func FromError(err error) Notice {
	apiErr := model.AsAPIError(err)
	if apiErr == nil {
		return Notice{}
	}

	level := LevelError
	switch apiErr.Kind {
	case model.KindConflict, model.KindUnauthorized:
		level = LevelWarning
	}
	return Notice{Level: level, Message: apiErr.Detail}
}

// IsZero は通知が空かどうかを返す。
func (n Notice) IsZero() bool {
	return n.Message == ""
}

// Flash はフラッシュCookieの読み書きを行う。
type Flash struct {
	sanitizer security.MessageSanitizer
	secure    bool
}

// NewFlash は新しいFlashを生成する。
func NewFlash(sanitizer security.MessageSanitizer, secure bool) *Flash {
	return &Flash{sanitizer: sanitizer, secure: secure}
}

// Sanitize は通知メッセージをサニタイズした通知を返す。
func (f *Flash) Sanitize(n Notice) Notice {
	n.Message = f.sanitizer.Sanitize(n.Message)
	return n
}

// Set は通知をフラッシュCookieに書き込む。空の通知は何もしない。
func (f *Flash) Set(w http.ResponseWriter, n Notice) error {
	n = f.Sanitize(n)
	if n.IsZero() {
		return nil
	}

	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop はフラッシュCookieから通知を読み出し、Cookieを削除する。
// Cookieが無い、または壊れている場合はfalseを返す。
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})

	n, err := decode(c.Value)
	if err != nil {
		return Notice{}, false
	}

	n = f.Sanitize(n)
	if n.IsZero() {
		return Notice{}, false
	}
	return n, true
}

var errUnknownLevel = errors.New("unknown notice level")

func decode(value string) (Notice, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, err
	}

	var n Notice
	if err := json.Unmarshal(data, &n); err != nil {
		return Notice{}, err
	}

	switch n.Level {
	case LevelSuccess, LevelInfo, LevelWarning, LevelError:
		return n, nil
	default:
		return Notice{}, errUnknownLevel
	}
}
