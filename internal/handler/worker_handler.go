package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/workerhub/internal/backend"
	"github.com/hitoshi/workerhub/internal/form"
	"github.com/hitoshi/workerhub/internal/model"
	"github.com/hitoshi/workerhub/internal/notice"
)

// WorkerService はワーカー検索に必要なバックエンド操作。
type WorkerService interface {
	SearchWorkers(ctx context.Context, tokens backend.TokenSource, filter model.WorkerFilter) ([]model.Worker, error)
}

// findWorkersView はワーカー検索テンプレート固有のデータ。
type findWorkersView struct {
	Searched  bool
	Workers   []model.Worker
	RateTypes []model.RateType
	Genders   []model.Gender
}

func newFindWorkersView() findWorkersView {
	return findWorkersView{
		RateTypes: []model.RateType{model.RatePerHour, model.RateHalfDay, model.RateFullDay, model.RateMonthly},
		Genders:   []model.Gender{model.GenderMale, model.GenderFemale, model.GenderOther},
	}
}

// WorkerHandler はワーカー検索画面のHTTPハンドラー。
type WorkerHandler struct {
	service  WorkerService
	renderer *Renderer
}

// NewWorkerHandler はWorkerHandlerを生成する。
func NewWorkerHandler(service WorkerService, renderer *Renderer) *WorkerHandler {
	return &WorkerHandler{service: service, renderer: renderer}
}

// FindWorkers はワーカーを検索して一覧を表示する。
// GET /
// 画面は誰でも表示できるが、検索APIは認証が必要なため未ログイン時は案内を通知する。
func (h *WorkerHandler) FindWorkers(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	view := newFindWorkersView()
	f := form.ParseSearch(r)
	if errs := f.Validate(); !errs.Valid() {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, pageFindWorkers, PageData{
			Title:  "ワーカーを探す",
			Form:   f,
			Errors: errs,
			Data:   view,
		})
		return
	}

	workers, err := h.service.SearchWorkers(r.Context(), s.Tokens(), f.Filter())
	if err != nil {
		n := notice.FromError(err)
		status := statusForError(err)
		if errors.Is(err, model.ErrUnauthorized) {
			n = notice.Warning(msgSearchSignIn)
			status = http.StatusOK
		}
		h.renderer.Render(w, r, status, pageFindWorkers, PageData{
			Title:  "ワーカーを探す",
			Notice: n,
			Form:   f,
			Data:   view,
		})
		return
	}

	view.Searched = true
	view.Workers = workers
	h.renderer.Render(w, r, http.StatusOK, pageFindWorkers, PageData{
		Title: "ワーカーを探す",
		Form:  f,
		Data:  view,
	})
}
