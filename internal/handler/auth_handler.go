// Package handler はページのHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/workerhub/internal/form"
	"github.com/hitoshi/workerhub/internal/guard"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/notice"
)

// SignupService は新規登録に必要なバックエンド操作。
type SignupService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.Message, error)
}

// AuthHandler はログイン・ログアウト・新規登録のHTTPハンドラー。
// ログイン状態の変更はリクエストに注入されたSessionを通して行う。
type AuthHandler struct {
	signup   SignupService
	renderer *Renderer
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(signup SignupService, renderer *Renderer) *AuthHandler {
	return &AuthHandler{signup: signup, renderer: renderer}
}

// SignInPage はログインフォームを表示する。
// GET /signin
func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageSignIn, PageData{
		Title: "ログイン",
		Form:  form.SigninForm{},
	})
}

// SignIn はログインを行う。
// POST /signin
// 成功時はプロフィールへ303で遷移し、失敗時はバックエンドのメッセージを通知してフォームを再表示する。
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	f := form.ParseSignin(r)
	if errs := f.Validate(); !errs.Valid() {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageSignIn, PageData{
			Title:  "ログイン",
			Form:   form.SigninForm{Email: f.Email},
			Errors: errs,
		})
		return
	}

	res := s.Login(r.Context(), f.Credentials())
	if !res.OK {
		h.renderer.Render(w, r, statusForError(res.Err), pageSignIn, PageData{
			Title:  "ログイン",
			Form:   form.SigninForm{Email: f.Email},
			Notice: notice.FromError(res.Err),
		})
		return
	}

	h.renderer.Redirect(w, r, guard.PathProfile, notice.Success(msgSignedIn))
}

// SignOut はログアウトする。
// POST /signout
// トークン削除に失敗してもセッションは未ログイン状態に戻り、サインインへ遷移する。
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := s.Logout(); err != nil {
		slog.Error("failed to logout", slog.String("error", err.Error()))
	}

	h.renderer.Redirect(w, r, guard.PathSignIn, notice.Info(msgSignedOut))
}

// SignUpPage は新規登録フォームを表示する。
// GET /signup
func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageSignUp, PageData{
		Title: "新規登録",
		Form:  form.SignupForm{},
	})
}

// SignUp はアカウントを登録する。
// POST /signup
// 登録済みメールアドレス（409）は警告として通知し、フォームを再表示する。
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	f := form.ParseSignup(r)
	if errs := f.Validate(); !errs.Valid() {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageSignUp, PageData{
			Title:  "新規登録",
			Form:   form.SignupForm{Email: f.Email},
			Errors: errs,
		})
		return
	}

	msg, err := h.signup.Signup(r.Context(), f.Request())
	if err != nil {
		h.renderer.Render(w, r, statusForError(err), pageSignUp, PageData{
			Title:  "新規登録",
			Form:   form.SignupForm{Email: f.Email},
			Notice: notice.FromError(err),
		})
		return
	}

	text := msg.Text()
	if text == "" {
		text = msgSignedUp
	}
	h.renderer.Redirect(w, r, guard.PathSignIn, notice.Success(text))
}
