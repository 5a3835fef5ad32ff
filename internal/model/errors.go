package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// クライアントに返す原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, user, system
	Action   string // クライアント向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewUserNotFoundError は指定IDのユーザーが存在しない場合のエラーを生成する。
func NewUserNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("User with ID %s not found", id),
		Category: "user",
		Action:   "Check the user ID and try again.",
	}
}

// NewInvalidRequestError はリクエストボディを解析できない場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Request body could not be parsed.",
		Category: "validation",
		Action:   "Send a valid JSON object.",
	}
}

// NewInternalError は内部エラーのレスポンス用エラーを生成する。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error.",
		Category: "system",
		Action:   "Please wait and try again later.",
	}
}
