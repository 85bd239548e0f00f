package tokenstore

import (
	"net/http"
	"time"
)

// DefaultCookieName はトークンを保存するCookie名。
const DefaultCookieName = "access_token"

// DefaultMaxAge はMaxAge未指定時の永続Cookieの有効期間。
const DefaultMaxAge = 720 * time.Hour

// CookieConfig はトークンCookieの属性。
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration // 永続Cookieの有効期間。0以下はDefaultMaxAge
}

// CookieStore はブラウザのCookieにトークンを保持するStore。
// 1つのリクエスト/レスポンスの組に束縛され、リクエストごとに生成する。
// Set/Clear後のGetは同一リクエスト内で新しい値を返す。
type CookieStore struct {
	w      http.ResponseWriter
	config CookieConfig

	token string
}

// NewCookieStore はリクエストのCookieからトークンを読み取ったCookieStoreを生成する。
func NewCookieStore(w http.ResponseWriter, r *http.Request, config CookieConfig) *CookieStore {
	if config.Name == "" {
		config.Name = DefaultCookieName
	}
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultMaxAge
	}
	s := &CookieStore{w: w, config: config}
	if c, err := r.Cookie(config.Name); err == nil {
		s.token = c.Value
	}
	return s
}

// Get はトークンを返す。
func (s *CookieStore) Get() (string, bool) {
	return s.token, s.token != ""
}

// Set はトークンを永続Cookieとしてレスポンスに書き込む。
func (s *CookieStore) Set(token string) error {
	s.token = token
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.config.Name,
		Value:    token,
		Path:     "/",
		Domain:   s.config.Domain,
		MaxAge:   int(s.config.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear はトークンCookieを失効させる。
func (s *CookieStore) Clear() error {
	s.token = ""
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.config.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
