// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/usersapi/internal/model"
	"github.com/hitoshi/usersapi/internal/validation"
)

// Repository はユーザーレコードの保持インターフェース。
// 見つからない場合はUSER_NOT_FOUNDのAPIErrorを返す。
type Repository interface {
	Create(ctx context.Context, in model.CreateUserInput) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, in model.UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// OperationRecorder はユーザー操作の結果を記録するインターフェース。
// metrics.Collectorが実装する。
type OperationRecorder interface {
	RecordUserOperation(op string, err error)
}

// Service はユーザー管理のサービス層。
// 入力検証を行ってからリポジトリを呼び出す。
type Service struct {
	repo     Repository
	recorder OperationRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewService(repo Repository, recorder OperationRecorder) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
	}
}

// Create は入力を検証してユーザーを作成する。
func (s *Service) Create(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	if err := validation.ValidateCreate(in); err != nil {
		s.record("create", err)
		return nil, err
	}

	u, err := s.repo.Create(ctx, in)
	s.record("create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", slog.String("user_id", u.ID))
	return u, nil
}

// List は全ユーザーを挿入順で返す。
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.FindAll(ctx)
	s.record("list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get は指定IDのユーザーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	s.record("get", err)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update は指定されたフィールドを検証し、部分更新する。
func (s *Service) Update(ctx context.Context, id string, in model.UpdateUserInput) (*model.User, error) {
	if err := validation.ValidateUpdate(in); err != nil {
		s.record("update", err)
		return nil, err
	}

	u, err := s.repo.Update(ctx, id, in)
	s.record("update", err)
	if err != nil {
		return nil, err
	}

	// フィールド指定なしの更新はupdatedAtのみ進める
	if in.IsEmpty() {
		slog.Info("user touched", slog.String("user_id", u.ID))
		return u, nil
	}

	slog.Info("user updated",
		slog.String("user_id", u.ID),
		slog.String("fields", in.Fields()),
	)
	return u, nil
}

// Delete は指定IDのユーザーを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	s.record("delete", err)
	if err != nil {
		return err
	}

	slog.Info("user deleted", slog.String("user_id", id))
	return nil
}

func (s *Service) record(op string, err error) {
	if s.recorder != nil {
		s.recorder.RecordUserOperation(op, err)
	}
}
