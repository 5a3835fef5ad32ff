// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/usersapi/internal/model"
	"github.com/hitoshi/usersapi/internal/validation"
)

// 操作結果のラベル値
const (
	ResultSuccess         = "success"
	ResultValidationError = "validation_error"
	ResultNotFound        = "not_found"
	ResultError           = "error"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	userOps      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
// userCountが指定された場合は現在のユーザー数をゲージとして公開する。
func NewCollector(reg prometheus.Registerer, userCount func() int) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersapi_http_requests_total",
			Help: "ルート・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "usersapi_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		userOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usersapi_user_operations_total",
			Help: "ユーザー操作の結果別の合計数",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(c.httpRequests, c.httpLatency, c.userOps)

	if userCount != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "usersapi_users",
			Help: "ストアに保持されているユーザー数",
		}, func() float64 {
			return float64(userCount())
		}))
	}

	return c
}

// RecordUserOperation はユーザー操作の結果を記録する。
func (c *Collector) RecordUserOperation(op string, err error) {
	c.userOps.WithLabelValues(op, classify(err)).Inc()
}

// RecordHTTPRequest はHTTPリクエストの結果とレイテンシを記録する。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware はリクエストごとにRecordHTTPRequestを呼ぶミドルウェアを返す。
// ルートラベルにはchiのルートパターン（/users/{id}など）を使い、カーディナリティを抑える。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			c.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		})
	}
}

func classify(err error) string {
	if err == nil {
		return ResultSuccess
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return ResultValidationError
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound {
		return ResultNotFound
	}
	return ResultError
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
