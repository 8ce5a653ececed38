// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証サービスとニュースフェッチワーカーから利用する。
type Collector struct {
	signups          prometheus.Counter
	otpIssued        prometheus.Counter
	otpVerifyFail    prometheus.Counter
	loginSuccess     prometheus.Counter
	loginFail        prometheus.Counter
	mailFail         prometheus.Counter
	fetchSuccess     prometheus.Counter
	fetchFail        prometheus.Counter
	fetchHTTPStatus  *prometheus.CounterVec
	fetchLatency     prometheus.Histogram
	newsUpserted     prometheus.Counter
	requestsByStatus *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_signups_total",
			Help: "アカウント登録の合計数",
		}),
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_otp_issued_total",
			Help: "発行された認証コードの合計数",
		}),
		otpVerifyFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_otp_verify_fail_total",
			Help: "認証コード検証失敗の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		mailFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_mail_fail_total",
			Help: "認証コードメール送信失敗の合計数",
		}),
		fetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_news_fetch_success_total",
			Help: "ニュースフィードフェッチ成功の合計数",
		}),
		fetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_news_fetch_fail_total",
			Help: "ニュースフィードフェッチ失敗の合計数",
		}),
		fetchHTTPStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoutbase_news_fetch_http_status_total",
			Help: "ニュースフェッチのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoutbase_news_fetch_latency_seconds",
			Help:    "ニュースフィードフェッチのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		newsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scoutbase_news_upserted_total",
			Help: "アップサートされたニュース記事の合計数",
		}),
		requestsByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoutbase_http_requests_total",
			Help: "HTTPステータスコード別のリクエスト数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signups,
		c.otpIssued,
		c.otpVerifyFail,
		c.loginSuccess,
		c.loginFail,
		c.mailFail,
		c.fetchSuccess,
		c.fetchFail,
		c.fetchHTTPStatus,
		c.fetchLatency,
		c.newsUpserted,
		c.requestsByStatus,
	)

	return c
}

// RecordSignup はアカウント登録を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordOTPIssued は認証コードの発行を記録する。
func (c *Collector) RecordOTPIssued() {
	c.otpIssued.Inc()
}

// RecordOTPVerifyFailure は認証コードの検証失敗を記録する。
func (c *Collector) RecordOTPVerifyFailure() {
	c.otpVerifyFail.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordMailFailure は認証コードメールの送信失敗を記録する。
func (c *Collector) RecordMailFailure() {
	c.mailFail.Inc()
}

// RecordFetchSuccess はニュースフェッチ成功を記録する。
func (c *Collector) RecordFetchSuccess() {
	c.fetchSuccess.Inc()
}

// RecordFetchFailure はニュースフェッチ失敗を記録する。
func (c *Collector) RecordFetchFailure() {
	c.fetchFail.Inc()
}

// RecordFetchHTTPStatus はニュースフェッチのHTTPステータスコードを記録する。
func (c *Collector) RecordFetchHTTPStatus(statusCode int) {
	c.fetchHTTPStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFetchLatency はニュースフェッチのレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordNewsUpserted はアップサートされた記事数を記録する。
func (c *Collector) RecordNewsUpserted(count int) {
	c.newsUpserted.Add(float64(count))
}

// RecordHTTPStatus はAPIレスポンスのステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.requestsByStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
