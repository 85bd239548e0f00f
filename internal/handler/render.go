package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/workerhub/internal/form"
	"github.com/hitoshi/workerhub/internal/middleware"
	"github.com/hitoshi/workerhub/internal/notice"
	"github.com/hitoshi/workerhub/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// ページテンプレート名
const (
	pageSignIn      = "signin"
	pageSignUp      = "signup"
	pageProfile     = "profile"
	pageFindWorkers = "find_workers"
	pageContact     = "contact"
)

var pages = []string{pageSignIn, pageSignUp, pageProfile, pageFindWorkers, pageContact}

// PageData はテンプレートに渡す共通データ。
type PageData struct {
	Title     string
	LoggedIn  bool
	User      string
	CSRFToken string
	Notice    notice.Notice
	Form      any
	Errors    form.FieldErrors
	Data      any
}

// Renderer は埋め込みテンプレートからページを描画する。
type Renderer struct {
	templates map[string]*template.Template
	flash     *notice.Flash
	logger    *slog.Logger
}

// NewRenderer は全ページのテンプレートを解析してRendererを生成する。
func NewRenderer(flash *notice.Flash, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		templates: make(map[string]*template.Template, len(pages)),
		flash:     flash,
		logger:    logger,
	}
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render はページを描画する。
// data.Noticeが空の場合はフラッシュCookieの通知を表示する。
// ログイン状態とCSRFトークンはリクエストコンテキストから補完する。
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	t, ok := rd.templates[page]
	if !ok {
		rd.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if s, ok := session.FromContext(r.Context()); ok {
		data.LoggedIn = s.LoggedIn()
		data.User, _ = s.User()
	}
	data.CSRFToken = middleware.CSRFTokenFromContext(r.Context())

	if data.Notice.IsZero() {
		if n, ok := rd.flash.Pop(w, r); ok {
			data.Notice = n
		}
	} else {
		data.Notice = rd.flash.Sanitize(data.Notice)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Redirect は通知をフラッシュCookieに保存して303で遷移する。
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, target string, n notice.Notice) {
	if err := rd.flash.Set(w, n); err != nil {
		rd.logger.Error("failed to set flash notice", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
