package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Q        string
	Category string
	Sort     string
}

// 商品テーブル（PartitionKey = "Products"）
type ProductRepository interface {
	Insert(ctx context.Context, p model.Product) (model.Product, error)
	FindByRowKey(ctx context.Context, rowKey string) (model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	// p.ETagが読んだ時点の値と一致するときだけ全項目を置き換える
	Replace(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, rowKey string) error
}
