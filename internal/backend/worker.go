package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hitoshi/workerhub/internal/model"
)

// SearchWorkers は GET /search_workers/ でワーカーを検索する。
// 結果はバックエンドが返した順序を保持する。
func (c *Client) SearchWorkers(ctx context.Context, tokens TokenSource, filter model.WorkerFilter) ([]model.Worker, error) {
	token, err := bearer(tokens)
	if err != nil {
		return nil, err
	}

	workers := []model.Worker{}
	err = c.do(ctx, request{
		endpoint: "search_workers",
		method:   http.MethodGet,
		path:     "/search_workers/",
		query:    filterQuery(filter),
		token:    token,
	}, &workers)
	if err != nil {
		return nil, err
	}
	return workers, nil
}

// filterQuery は絞り込み条件をクエリパラメータに変換する。ゼロ値は含めない。
func filterQuery(f model.WorkerFilter) url.Values {
	q := url.Values{}
	if f.MinRate != nil {
		q.Set("min_rate", strconv.FormatFloat(*f.MinRate, 'f', -1, 64))
	}
	if f.MaxRate != nil {
		q.Set("max_rate", strconv.FormatFloat(*f.MaxRate, 'f', -1, 64))
	}
	if f.RateType != "" {
		q.Set("rate_type", string(f.RateType))
	}
	if f.WorkingAreaName != "" {
		q.Set("working_area_name", f.WorkingAreaName)
	}
	if f.Gender != "" {
		q.Set("gender", string(f.Gender))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.PageNo > 0 {
		q.Set("page_no", strconv.Itoa(f.PageNo))
	}
	return q
}
