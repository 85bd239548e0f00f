// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// バックエンドクライアント、ルートガード、セッションから利用する。
type MetricsCollector interface {
	RecordBackendCall(endpoint string, statusCode int, duration time.Duration)
	RecordGuardDecision(protection string, outcome string)
	RecordLogin(outcome string)
	RecordSessionTransition(from, to string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	backendRequests   *prometheus.CounterVec
	backendLatency    *prometheus.HistogramVec
	guardDecisions    *prometheus.CounterVec
	logins            *prometheus.CounterVec
	sessionTransition *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workerhub_backend_requests_total",
			Help: "バックエンドAPI呼び出しのエンドポイント・ステータスコード別の合計数",
		}, []string{"endpoint", "status_code"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workerhub_backend_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workerhub_guard_decisions_total",
			Help: "ルートガードの判定結果別の合計数",
		}, []string{"protection", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workerhub_logins_total",
			Help: "ログイン試行の結果別の合計数",
		}, []string{"outcome"}),
		sessionTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workerhub_session_transitions_total",
			Help: "セッション状態遷移の合計数",
		}, []string{"from", "to"}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.guardDecisions,
		c.logins,
		c.sessionTransition,
	)

	return c
}

// RecordBackendCall はバックエンド呼び出しを記録する。通信失敗はstatusCode 0で記録する。
func (c *Collector) RecordBackendCall(endpoint string, statusCode int, duration time.Duration) {
	c.backendRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.backendLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordGuardDecision はルートガードの判定を記録する。
func (c *Collector) RecordGuardDecision(protection string, outcome string) {
	c.guardDecisions.WithLabelValues(protection, outcome).Inc()
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordSessionTransition はセッション状態の遷移を記録する。
func (c *Collector) RecordSessionTransition(from, to string) {
	c.sessionTransition.WithLabelValues(from, to).Inc()
}

// Nop は何も記録しないMetricsCollector。
type Nop struct{}

func (Nop) RecordBackendCall(string, int, time.Duration) {}
func (Nop) RecordGuardDecision(string, string)           {}
func (Nop) RecordLogin(string)                           {}
func (Nop) RecordSessionTransition(string, string)       {}

// OrNop はcがnilの場合にNopを返す。
func OrNop(c MetricsCollector) MetricsCollector {
	if c == nil {
		return Nop{}
	}
	return c
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
