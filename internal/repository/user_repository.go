package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// アカウント（リレーショナル側）の保存・取得
type UserRepository interface {
	//新規ユーザー作成（username重複はErrAlreadyExists）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Delete(ctx context.Context, userID int64) error
}
