// Package model はドメインモデルを定義する。
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// TimeFormat はAPIレスポンスで使用するISO-8601形式（UTC、ミリ秒精度）。
const TimeFormat = "2006-01-02T15:04:05.000Z"

// FormatTime は時刻をUTCに変換してTimeFormatで整形する。
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// User はユーザーレコードを表す。
// IDはストアが採番し、クライアントからは指定できない。
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// userJSON はUserのJSON表現。
type userJSON struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MarshalJSON はタイムスタンプをTimeFormatで出力する。
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: FormatTime(u.CreatedAt),
		UpdatedAt: FormatTime(u.UpdatedAt),
	})
}

// CreateUserInput はユーザー作成時の入力。
type CreateUserInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateUserInput はユーザーの部分更新の入力。
// nilのフィールドは指定されなかったものとして扱い、既存値を変更しない。
type UpdateUserInput struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// IsEmpty は更新対象のフィールドが1つも指定されていない場合にtrueを返す。
func (in UpdateUserInput) IsEmpty() bool {
	return in.Email == nil && in.FirstName == nil && in.LastName == nil
}

// ApplyTo は指定されたフィールドのみをuserへ上書きする。
// UpdatedAtは呼び出し側で更新する。
func (in UpdateUserInput) ApplyTo(user *User) {
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
}

// Fields は指定されたフィールド名をJSON名で返す。ログ出力用。
func (in UpdateUserInput) Fields() string {
	var fields []string
	if in.Email != nil {
		fields = append(fields, "email")
	}
	if in.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if in.LastName != nil {
		fields = append(fields, "lastName")
	}
	return strings.Join(fields, ",")
}
