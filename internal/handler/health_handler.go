package handler

import (
	"net/http"
	"time"

	"github.com/hitoshi/usersapi/internal/model"
)

// ServiceVersion はヘルスチェックで返すサービスのバージョン。
const ServiceVersion = "1.0.0"

// healthResponse はヘルスチェックのAPIレスポンス。
type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// HealthHandler は生存確認用のHTTPハンドラー。
// 依存先のチェックは行わないため、readinessではなくlivenessとして使う。
type HealthHandler struct {
	environment string
	now         func() time.Time
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		now:         time.Now,
	}
}

// Health は常に200とstatus "ok"を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Timestamp:   model.FormatTime(h.now()),
		Environment: h.environment,
		Version:     ServiceVersion,
	})
}
