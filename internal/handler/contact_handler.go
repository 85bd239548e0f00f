package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/workerhub/internal/form"
	"github.com/hitoshi/workerhub/internal/guard"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/notice"
)

// ContactService は問い合わせ送信に必要なバックエンド操作。
type ContactService interface {
	Contact(ctx context.Context, msg model.ContactMessage) (*model.Message, error)
}

// ContactHandler は問い合わせ画面のHTTPハンドラー。
type ContactHandler struct {
	service  ContactService
	renderer *Renderer
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactService, renderer *Renderer) *ContactHandler {
	return &ContactHandler{service: service, renderer: renderer}
}

// Page は問い合わせフォームを表示する。
// GET /contact
func (h *ContactHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageContact, PageData{
		Title: "お問い合わせ",
		Form:  form.ContactForm{},
	})
}

// Send は問い合わせを送信する。
// POST /contact
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	f := form.ParseContact(r)
	if errs := f.Validate(); !errs.Valid() {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageContact, PageData{
			Title:  "お問い合わせ",
			Form:   f,
			Errors: errs,
		})
		return
	}

	msg, err := h.service.Contact(r.Context(), f.ContactMessage())
	if err != nil {
		h.renderer.Render(w, r, statusForError(err), pageContact, PageData{
			Title:  "お問い合わせ",
			Notice: notice.FromError(err),
			Form:   f,
		})
		return
	}

	text := msg.Text()
	if text == "" {
		text = msgContactSent
	}
	h.renderer.Redirect(w, r, guard.PathContact, notice.Success(text))
}
