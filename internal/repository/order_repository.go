package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文一覧の絞り込み。nilなら全件。
type OrderListFilter struct {
	CustomerUsername *string
	Status           string
}

// 注文テーブル（PartitionKey = "Orders"）
type OrderRepository interface {
	// 追加のみ（同じRowKeyがあればErrAlreadyExists）
	Insert(ctx context.Context, o model.Order) (model.Order, error)
	FindByRowKey(ctx context.Context, rowKey string) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	Replace(ctx context.Context, o model.Order) (model.Order, error)
	Delete(ctx context.Context, rowKey string) error
}
