package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/usersapi/internal/model"
	"github.com/hitoshi/usersapi/internal/validation"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 入力検証エラーの場合はDetailsに失敗した全フィールドを含む。
type ErrorResponseBody struct {
	Code     string                  `json:"code"`
	Message  string                  `json:"message"`
	Category string                  `json:"category"`
	Action   string                  `json:"action"`
	Details  []validation.FieldError `json:"details,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeBody(w, statusCode, ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteValidationErrorResponse は入力検証エラーを400で書き込む。
func WriteValidationErrorResponse(w http.ResponseWriter, verr *validation.Error) {
	writeBody(w, http.StatusBadRequest, ErrorResponseBody{
		Code:     model.ErrCodeValidationFailed,
		Message:  verr.Error(),
		Category: "validation",
		Action:   "Fix the listed fields and retry.",
		Details:  verr.Fields(),
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

func writeBody(w http.ResponseWriter, statusCode int, body ErrorResponseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
