// Package store はユーザーレコードをプロセス内メモリで保持するストアを提供する。
package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hitoshi/usersapi/internal/model"
)

// Store はユーザーレコードの順序付きコレクションを保持する。
// 挿入順を保持し、全操作はミューテックスで直列化される。
type Store struct {
	mu    sync.RWMutex
	users []model.User
	now   func() time.Time
}

// Option はStoreの生成オプション。
type Option func(*Store)

// WithClock は現在時刻の取得関数を差し替える。テスト用。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New は新しいStoreを生成する。seedに渡したユーザーは挿入順に格納される。
func New(seed []model.User, opts ...Option) *Store {
	s := &Store{
		users: make([]model.User, 0, len(seed)),
		now:   time.Now,
	}
	s.users = append(s.users, seed...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultSeed は起動時に投入する2件のユーザーを返す。
func DefaultSeed() []model.User {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []model.User{
		{
			ID:        "1",
			Email:     "john.doe@example.com",
			FirstName: "John",
			LastName:  "Doe",
			CreatedAt: jan1,
			UpdatedAt: jan1,
		},
		{
			ID:        "2",
			Email:     "jane.smith@example.com",
			FirstName: "Jane",
			LastName:  "Smith",
			CreatedAt: jan2,
			UpdatedAt: jan2,
		},
	}
}

// Create はユーザーを末尾に追加して返す。
//
// IDは「現在の件数+1」を文字列化したもの。削除後に作成すると既存IDと
// 重複しうる（例: 作成、作成、#2削除、作成 → "2"が再度採番される）。
// 既存クライアントとの互換のためこの採番方式を維持している。
func (s *Store) Create(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	u := model.User{
		ID:        strconv.Itoa(len(s.users) + 1),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users = append(s.users, u)

	return &u, nil
}

// FindAll は全ユーザーを挿入順で返す。空の場合も非nilのスライスを返す。
func (s *Store) FindAll(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

// FindByID は指定IDのユーザーを返す。
// 見つからない場合はUSER_NOT_FOUNDのAPIErrorを返す。
func (s *Store) FindByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, model.NewUserNotFoundError(id)
	}
	u := s.users[i]
	return &u, nil
}

// Update は指定されたフィールドのみをマージし、UpdatedAtを更新する。
func (s *Store) Update(ctx context.Context, id string, in model.UpdateUserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, model.NewUserNotFoundError(id)
	}

	u := s.users[i]
	in.ApplyTo(&u)

	// 時計が巻き戻ってもUpdatedAtは単調に進める
	now := s.now()
	if now.Before(u.UpdatedAt) {
		now = u.UpdatedAt
	}
	u.UpdatedAt = now

	s.users[i] = u
	return &u, nil
}

// Delete は指定IDのユーザーを削除する。残りの順序は保持される。
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.NewUserNotFoundError(id)
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// Count は現在のユーザー数を返す。
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// indexOf はIDに一致する最初のレコードの位置を返す。呼び出し側でロックを保持すること。
func (s *Store) indexOf(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}
