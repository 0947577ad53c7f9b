package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 顧客テーブル（PartitionKey = "Customers"）
type CustomerRepository interface {
	Insert(ctx context.Context, c model.Customer) (model.Customer, error)
	FindByRowKey(ctx context.Context, rowKey string) (model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Replace(ctx context.Context, c model.Customer) (model.Customer, error)
	Delete(ctx context.Context, rowKey string) error
}
