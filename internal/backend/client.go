// Package backend はワーカーマーケットプレイスのREST APIクライアントを提供する。
//
// 認証不要の呼び出し（signup, contact, login）はボディのみを送信する。
// 認証付きの呼び出しはTokenSourceのトークンをAuthorizationヘッダーに付与し、
// トークンが無い場合はリクエストを発行せずmodel.ErrUnauthorizedを返す。
// バックエンドの失敗は握りつぶさず、メッセージとステータスを持つ*model.APIErrorとして返す。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/workerhub/internal/metrics"
	"github.com/hitoshi/workerhub/internal/model"
)

// maxResponseSize はレスポンスボディの最大読み取りサイズ。
const maxResponseSize = 1 << 20

// TokenSource は認証付き呼び出しのトークン取得元。tokenstore.Storeが満たす。
type TokenSource interface {
	Get() (string, bool)
}

// Client はバックエンドREST APIのクライアント。
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
}

// NewClient はClientを生成する。baseURLは起動時に固定する。
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger, collector metrics.MetricsCollector) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		metrics:    metrics.OrNop(collector),
	}
}

// request は1回のAPI呼び出しの内容。
type request struct {
	endpoint string // メトリクス・ログ用の名前
	method   string
	path     string
	query    url.Values
	body     any
	token    string
}

// bearer はTokenSourceからトークンを取り出す。無い場合はErrUnauthorized。
func bearer(tokens TokenSource) (string, error) {
	if tokens == nil {
		return "", model.ErrUnauthorized
	}
	token, ok := tokens.Get()
	if !ok || token == "" {
		return "", model.ErrUnauthorized
	}
	return token, nil
}

// do はリクエストを送信し、2xxの場合はoutへJSONをデコードする。
// 非2xxはバックエンドのdetailを含むAPIError、通信・解析失敗はKindNetworkOrServerを返す。
func (c *Client) do(ctx context.Context, req request, out any) error {
	reqURL := c.baseURL + req.path
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return model.NewTransportError(fmt.Errorf("failed to encode request body: %w", err))
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, body)
	if err != nil {
		return model.NewTransportError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordBackendCall(req.endpoint, 0, time.Since(start))
		c.logger.Error("backend request failed",
			slog.String("endpoint", req.endpoint),
			slog.String("error", err.Error()),
		)
		return model.NewTransportError(err)
	}
	defer resp.Body.Close()

	c.metrics.RecordBackendCall(req.endpoint, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.Error("failed to read backend response",
			slog.String("endpoint", req.endpoint),
			slog.String("error", err.Error()),
		)
		return model.NewTransportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := model.NewStatusError(resp.StatusCode, decodeDetail(data))
		c.logger.Warn("backend returned error status",
			slog.String("endpoint", req.endpoint),
			slog.Int("http_status", resp.StatusCode),
			slog.String("kind", string(apiErr.Kind)),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("failed to parse backend response",
			slog.String("endpoint", req.endpoint),
			slog.String("error", err.Error()),
		)
		return model.NewTransportError(fmt.Errorf("failed to parse response body: %w", err))
	}
	return nil
}

// decodeDetail はエラーボディの detail を取り出す。
// 文字列でない場合（検証エラーの配列など）や解析できない場合は空文字列を返す。
func decodeDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

// IsUnauthorized はerrがトークン未保持によるセンチネルかどうかを返す。
func IsUnauthorized(err error) bool {
	return errors.Is(err, model.ErrUnauthorized)
}
