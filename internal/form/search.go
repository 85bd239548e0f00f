package form

import (
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hitoshi/workerhub/internal/model"
)

// SearchForm はワーカー検索の絞り込みフォーム（クエリ文字列）。
type SearchForm struct {
	MinRate         string `json:"min_rate"`
	MaxRate         string `json:"max_rate"`
	RateType        string `json:"rate_type"`
	WorkingAreaName string `json:"working_area_name"`
	Gender          string `json:"gender"`
	Limit           string `json:"limit"`
	PageNo          string `json:"page_no"`
}

// ParseSearch はクエリ文字列からSearchFormを読み取る。
func ParseSearch(r *http.Request) SearchForm {
	q := r.URL.Query()
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }
	return SearchForm{
		MinRate:         get("min_rate"),
		MaxRate:         get("max_rate"),
		RateType:        get("rate_type"),
		WorkingAreaName: get("working_area_name"),
		Gender:          get("gender"),
		Limit:           get("limit"),
		PageNo:          get("page_no"),
	}
}

// Validate は数値項目と選択肢を検証する。全て任意項目。
func (f SearchForm) Validate() FieldErrors {
	return toFieldErrors(validation.ValidateStruct(&f,
		validation.Field(&f.MinRate, is.Float),
		validation.Field(&f.MaxRate, is.Float),
		validation.Field(&f.RateType, validation.In(
			string(model.RatePerHour), string(model.RateHalfDay),
			string(model.RateFullDay), string(model.RateMonthly))),
		validation.Field(&f.WorkingAreaName, validation.Length(0, 100)),
		validation.Field(&f.Gender, validation.In(
			string(model.GenderMale), string(model.GenderFemale), string(model.GenderOther))),
		validation.Field(&f.Limit, is.Int),
		validation.Field(&f.PageNo, is.Int),
	))
}

// Filter は検証済みのフォームから検索条件を組み立てる。解釈できない数値は未指定として扱う。
func (f SearchForm) Filter() model.WorkerFilter {
	filter := model.WorkerFilter{
		RateType:        model.RateType(f.RateType),
		WorkingAreaName: f.WorkingAreaName,
		Gender:          model.Gender(f.Gender),
	}
	if v, err := strconv.ParseFloat(f.MinRate, 64); err == nil {
		filter.MinRate = &v
	}
	if v, err := strconv.ParseFloat(f.MaxRate, 64); err == nil {
		filter.MaxRate = &v
	}
	if v, err := strconv.Atoi(f.Limit); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(f.PageNo); err == nil && v > 0 {
		filter.PageNo = v
	}
	return filter
}
