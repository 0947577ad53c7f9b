package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

// 監査ログを1件保存
func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(&log).Error)
}

// 監査ログを条件で一覧取得（新しい順）
func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if f.ActorUserID != nil {
		q = q.Where("actor_user_id = ?", *f.ActorUserID)
	}
	if f.ResourceType != nil {
		q = q.Where("resource_type = ?", *f.ResourceType)
	}
	if f.ResourceID != "" {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	items := []model.AuditLog{}
	if err := q.Order("id desc").Limit(limit).Find(&items).Error; err != nil {
		return []model.AuditLog{}, translate(err)
	}
	return items, nil
}
