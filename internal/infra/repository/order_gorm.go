package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	table tableGorm[model.Order]
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{table: tableGorm[model.Order]{db: db, partition: model.PartitionOrders}}
}

// 追加のみ。RowKeyが衝突したらErrAlreadyExists（上書きしない）
func (r *OrderGormRepository) Insert(ctx context.Context, o model.Order) (model.Order, error) {
	stamp(&o.TableEntity, model.PartitionOrders)
	if o.OrderDate.IsZero() {
		o.OrderDate = o.Timestamp
	}
	if err := r.table.insert(ctx, &o); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) FindByRowKey(ctx context.Context, rowKey string) (model.Order, error) {
	return r.table.get(ctx, rowKey)
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	return r.table.query(ctx, func(tx *gorm.DB) *gorm.DB {
		//ユーザー絞り込み
		if f.CustomerUsername != nil {
			tx = tx.Where("customer_username = ?", *f.CustomerUsername)
		}
		//status 絞り込み
		if f.Status != "" {
			tx = tx.Where("status = ?", f.Status)
		}
		return tx.Order("order_date desc").Order("row_key asc")
	})
}

// 注文の置き換え（ETag一致時のみ）。作成日時と注文者名はそのまま。
func (r *OrderGormRepository) Replace(ctx context.Context, o model.Order) (model.Order, error) {
	expected := o.ETag
	stamp(&o.TableEntity, model.PartitionOrders)

	err := r.table.replace(ctx, o.RowKey, expected, map[string]interface{}{
		"customer_row_key": o.CustomerRowKey,
		"product_row_keys": o.ProductRowKeys,
		"quantity":         o.Quantity,
		"total_price":      o.TotalPrice,
		"status":           o.Status,
		"etag":             o.ETag,
		"timestamp":        o.Timestamp,
	})
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, rowKey string) error {
	return r.table.delete(ctx, rowKey)
}
