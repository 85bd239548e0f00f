package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/workerhub/internal/backend"
	"github.com/hitoshi/workerhub/internal/form"
	"github.com/hitoshi/workerhub/internal/guard"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/notice"
	"github.com/hitoshi/workerhub/internal/session"
)

// ProfileService はプロフィール画面が必要とするバックエンド操作。
type ProfileService interface {
	GetProfile(ctx context.Context, tokens backend.TokenSource) (*model.Profile, error)
	CreateProfile(ctx context.Context, tokens backend.TokenSource, p model.Profile) (*model.Message, error)
	UpdateProfile(ctx context.Context, tokens backend.TokenSource, u model.ProfileUpdate) (*model.Message, error)
	SwitchRole(ctx context.Context, tokens backend.TokenSource) (*model.Message, error)
	GetAddress(ctx context.Context, tokens backend.TokenSource) (*model.Address, error)
}

// プロフィールフォームの送信モード
const (
	profileModeCreate = "create"
	profileModeUpdate = "update"
)

// profileView はプロフィールテンプレート固有のデータ。
type profileView struct {
	Mode    string
	Genders []model.Gender
	Roles   []model.Role
}

func newProfileView(mode string) profileView {
	if mode != profileModeUpdate {
		mode = profileModeCreate
	}
	return profileView{
		Mode:    mode,
		Genders: []model.Gender{model.GenderMale, model.GenderFemale, model.GenderOther},
		Roles:   []model.Role{model.RoleUser, model.RoleWorker},
	}
}

// ProfileHandler はプロフィール画面のHTTPハンドラー。ルートガードで保護される。
type ProfileHandler struct {
	service  ProfileService
	renderer *Renderer
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileService, renderer *Renderer) *ProfileHandler {
	return &ProfileHandler{service: service, renderer: renderer}
}

// Show はプロフィールを表示する。
// GET /profile
// プロフィール未作成（404）の場合は作成フォームを表示する。
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProfile(r.Context(), s.Tokens())
	if err == nil {
		h.render(w, r, http.StatusOK, profileModeUpdate, form.ProfileFormFrom(*p), nil, notice.Notice{})
		return
	}
	if isNotFound(err) {
		h.render(w, r, http.StatusOK, profileModeCreate, form.ProfileForm{}, nil, notice.Notice{})
		return
	}
	if h.expired(w, r, s, err) {
		return
	}
	h.render(w, r, statusForError(err), profileModeCreate, form.ProfileForm{}, nil, notice.FromError(err))
}

// Save はプロフィールを作成または更新する。
// POST /profile
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	mode := r.PostFormValue("mode")
	f := form.ParseProfile(r)
	if errs := f.Validate(); !errs.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, mode, f, errs, notice.Notice{})
		return
	}

	var (
		msg *model.Message
		err error
	)
	if mode == profileModeUpdate {
		msg, err = h.service.UpdateProfile(r.Context(), s.Tokens(), f.Update())
	} else {
		msg, err = h.service.CreateProfile(r.Context(), s.Tokens(), f.Profile())
	}
	if err != nil {
		if h.expired(w, r, s, err) {
			return
		}
		h.render(w, r, statusForError(err), mode, f, nil, notice.FromError(err))
		return
	}

	text := msg.Text()
	if text == "" {
		text = msgProfileSaved
	}
	h.renderer.Redirect(w, r, guard.PathProfile, notice.Success(text))
}

// FillAddress は位置情報から取得した住所を入力中のフォームに反映して再表示する。
// POST /profile/address
// 入力中の値は保存しない。
func (h *ProfileHandler) FillAddress(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	mode := r.PostFormValue("mode")
	f := form.ParseProfile(r)

	addr, err := h.service.GetAddress(r.Context(), s.Tokens())
	if err != nil {
		if h.expired(w, r, s, err) {
			return
		}
		h.render(w, r, statusForError(err), mode, f, nil, notice.FromError(err))
		return
	}

	h.render(w, r, http.StatusOK, mode, f.WithAddress(*addr), nil, notice.Info(msgAddressFilled))
}

// SwitchRole はUserとWorkerの種別を切り替える。
// POST /profile/role
func (h *ProfileHandler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	msg, err := h.service.SwitchRole(r.Context(), s.Tokens())
	if err != nil {
		if h.expired(w, r, s, err) {
			return
		}
		h.renderer.Redirect(w, r, guard.PathProfile, notice.FromError(err))
		return
	}

	text := msg.Text()
	if text == "" {
		text = msgRoleSwitched
	}
	h.renderer.Redirect(w, r, guard.PathProfile, notice.Success(text))
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, status int, mode string, f form.ProfileForm, errs form.FieldErrors, n notice.Notice) {
	h.renderer.Render(w, r, status, pageProfile, PageData{
		Title:  "プロフィール",
		Notice: n,
		Form:   f,
		Errors: errs,
		Data:   newProfileView(mode),
	})
}

// expired はバックエンドがトークンを拒否した場合にログアウトしてサインインへ遷移させる。
// 遷移した場合はtrueを返す。
func (h *ProfileHandler) expired(w http.ResponseWriter, r *http.Request, s *session.Session, err error) bool {
	if !isAuthFailure(err) {
		return false
	}
	if logoutErr := s.Logout(); logoutErr != nil {
		slog.Error("failed to logout after token rejection", slog.String("error", logoutErr.Error()))
	}
	h.renderer.Redirect(w, r, guard.PathSignIn, notice.Warning(msgSessionExpired))
	return true
}

// isNotFound はバックエンドが404を返したかどうかを返す。
func isNotFound(err error) bool {
	apiErr := model.AsAPIError(err)
	return apiErr != nil && apiErr.Status == http.StatusNotFound
}
