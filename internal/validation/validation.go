// Package validation はユーザー作成・更新リクエストの入力検証を提供する。
// 検証は形式・必須チェックのみで、一意性などの業務ルールは扱わない。
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	emailaddress "github.com/mcnijman/go-emailaddress"
	"go.uber.org/multierr"

	"github.com/hitoshi/usersapi/internal/model"
)

// FieldError は1フィールド分の検証失敗を表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error はerrorインターフェースを実装する。
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error は1件以上のフィールド検証失敗をまとめたエラー。
type Error struct {
	err error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return "validation failed: " + e.err.Error()
}

// Unwrap は集約されたフィールドエラーを返す。
func (e *Error) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Fields は失敗した全フィールドを検出順で返す。
func (e *Error) Fields() []FieldError {
	errs := multierr.Errors(e.err)
	fields := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		if fe, ok := err.(*FieldError); ok {
			fields = append(fields, *fe)
		}
	}
	return fields
}

// ValidateCreate は作成リクエストを検証する。
// email、firstName、lastNameはすべて必須。失敗したフィールドはすべて報告する。
func ValidateCreate(in model.CreateUserInput) error {
	var err error
	err = multierr.Append(err, checkEmail(in.Email))
	err = multierr.Append(err, checkName("firstName", in.FirstName))
	err = multierr.Append(err, checkName("lastName", in.LastName))
	return wrap(err)
}

// ValidateUpdate は部分更新リクエストを検証する。
// 指定されたフィールドのみ作成時と同じルールで検証する。
func ValidateUpdate(in model.UpdateUserInput) error {
	var err error
	if in.Email != nil {
		err = multierr.Append(err, checkEmail(*in.Email))
	}
	if in.FirstName != nil {
		err = multierr.Append(err, checkName("firstName", *in.FirstName))
	}
	if in.LastName != nil {
		err = multierr.Append(err, checkName("lastName", *in.LastName))
	}
	return wrap(err)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return &Error{err: err}
}

func checkEmail(email string) error {
	if email == "" {
		return &FieldError{Field: "email", Message: "email should not be empty"}
	}
	addr, err := emailaddress.Parse(email)
	if err != nil || !hasValidTLD(addr.Domain) {
		return &FieldError{Field: "email", Message: "email must be an email"}
	}
	return nil
}

// hasValidTLD はドメインがドット区切りで、トップレベルドメインが2文字以上の場合にtrueを返す。
func hasValidTLD(domain string) bool {
	i := strings.LastIndexByte(domain, '.')
	if i < 0 {
		return false
	}
	return utf8.RuneCountInString(domain[i+1:]) >= 2
}

func checkName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: field + " should not be empty"}
	}
	return nil
}
