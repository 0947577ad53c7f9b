package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	table tableGorm[model.Customer]
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{table: tableGorm[model.Customer]{db: db, partition: model.PartitionCustomers}}
}

func (r *CustomerGormRepository) Insert(ctx context.Context, c model.Customer) (model.Customer, error) {
	stamp(&c.TableEntity, model.PartitionCustomers)
	if err := r.table.insert(ctx, &c); err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) FindByRowKey(ctx context.Context, rowKey string) (model.Customer, error) {
	return r.table.get(ctx, rowKey)
}

func (r *CustomerGormRepository) List(ctx context.Context) ([]model.Customer, error) {
	return r.table.query(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("last_name asc").Order("first_name asc")
	})
}

func (r *CustomerGormRepository) Replace(ctx context.Context, c model.Customer) (model.Customer, error) {
	expected := c.ETag
	stamp(&c.TableEntity, model.PartitionCustomers)

	err := r.table.replace(ctx, c.RowKey, expected, map[string]interface{}{
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"email":        c.Email,
		"phone_number": c.PhoneNumber,
		"address":      c.Address,
		"city":         c.City,
		"etag":         c.ETag,
		"timestamp":    c.Timestamp,
	})
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerGormRepository) Delete(ctx context.Context, rowKey string) error {
	return r.table.delete(ctx, rowKey)
}
