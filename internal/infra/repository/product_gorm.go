package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	table tableGorm[model.Product]
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{table: tableGorm[model.Product]{db: db, partition: model.PartitionProducts}}
}

// 商品の作成
func (r *ProductGormRepository) Insert(ctx context.Context, p model.Product) (model.Product, error) {
	stamp(&p.TableEntity, model.PartitionProducts)
	if err := r.table.insert(ctx, &p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// RowKeyで商品を取得
func (r *ProductGormRepository) FindByRowKey(ctx context.Context, rowKey string) (model.Product, error) {
	return r.table.get(ctx, rowKey)
}

// 検索/カテゴリ/ソート付きの一覧
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	return r.table.query(ctx, func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Q); s != "" {
			tx = tx.Where("name ILIKE ?", "%"+s+"%")
		}
		if c := strings.TrimSpace(q.Category); c != "" {
			tx = tx.Where("category = ?", c)
		}

		switch q.Sort {
		case "price_asc":
			return tx.Order("price asc").Order("row_key asc")
		case "price_desc":
			return tx.Order("price desc").Order("row_key asc")
		default:
			return tx.Order("name asc").Order("row_key asc")
		}
	})
}

// 商品の置き換え（ETag一致時のみ）
func (r *ProductGormRepository) Replace(ctx context.Context, p model.Product) (model.Product, error) {
	expected := p.ETag
	stamp(&p.TableEntity, model.PartitionProducts)

	err := r.table.replace(ctx, p.RowKey, expected, map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category":    p.Category,
		"image_url":   p.ImageURL,
		"etag":        p.ETag,
		"timestamp":   p.Timestamp,
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品削除
func (r *ProductGormRepository) Delete(ctx context.Context, rowKey string) error {
	return r.table.delete(ctx, rowKey)
}
