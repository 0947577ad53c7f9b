package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// パーティションキー + RowKey で引くテーブルの共通処理。
// ETagはpartition/row単位の楽観ロックに使う。
type tableGorm[T any] struct {
	db        *gorm.DB
	partition string
}

// 新規/置換のたびにETagとTimestampを振り直す
func stamp(e *model.TableEntity, partition string) {
	e.PartitionKey = partition
	e.ETag = uuid.NewString()
	e.Timestamp = time.Now().UTC()
}

func (t tableGorm[T]) scoped(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Model(new(T)).Where("partition_key = ?", t.partition)
}

func (t tableGorm[T]) insert(ctx context.Context, e *T) error {
	if err := t.db.WithContext(ctx).Create(e).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (t tableGorm[T]) get(ctx context.Context, rowKey string) (T, error) {
	var e T
	err := t.db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", t.partition, rowKey).
		First(&e).Error
	if err != nil {
		return e, translate(err)
	}
	return e, nil
}

func (t tableGorm[T]) query(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	items := []T{}
	q := t.db.WithContext(ctx).Where("partition_key = ?", t.partition)
	if scope != nil {
		q = scope(q)
	}
	if err := q.Find(&items).Error; err != nil {
		return []T{}, translate(err)
	}
	return items, nil
}

// etagが一致したときだけcolsで置き換える。
// 0件更新なら「無い」のか「古い」のかを確認して返す。
func (t tableGorm[T]) replace(ctx context.Context, rowKey, etag string, cols map[string]interface{}) error {
	res := t.db.WithContext(ctx).Model(new(T)).
		Where("partition_key = ? AND row_key = ? AND etag = ?", t.partition, rowKey, etag).
		Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := t.scoped(ctx).Where("row_key = ?", rowKey).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrConcurrencyConflict
}

func (t tableGorm[T]) delete(ctx context.Context, rowKey string) error {
	res := t.db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", t.partition, rowKey).
		Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// gormのエラーをrepositoryのエラーにそろえる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrAlreadyExists
	default:
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
}
