package repository

import (
	"context"

	"storefront/internal/domain/model"
)

//監査ログの絞り込み条件。
type AuditLogFilter struct {
	ActorUserID  *int64
	ResourceType *model.AuditResourceType
	ResourceID   string
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
