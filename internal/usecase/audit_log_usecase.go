package usecase

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"

	"github.com/rs/zerolog"
)

// 管理者操作の記録。書けなくても本処理は失敗させない。
type auditRecorder struct {
	logs repo.AuditLogRepository
	log  zerolog.Logger
	now  func() time.Time
}

func (a auditRecorder) record(
	ctx context.Context,
	actor model.Identity,
	action model.AuditAction,
	resType model.AuditResourceType,
	resID string,
	before, after interface{},
) {
	if a.logs == nil {
		return
	}
	entry := model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: resType,
		ResourceID:   resID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    a.now(),
	}
	if err := a.logs.Create(ctx, entry); err != nil {
		a.log.Warn().Err(err).
			Str("action", string(action)).
			Str("resource_id", resID).
			Msg("audit log write failed")
	}
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

type ListAuditLogsInput struct {
	ActorUserID  *int64
	ResourceType string
	ResourceID   string
	Limit        int
}

func (u *AuditLogUsecase) List(ctx context.Context, actor model.Identity, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if !actor.IsAdmin() {
		return []model.AuditLog{}, newError(ErrForbidden, "forbidden")
	}

	limit := in.Limit
	if limit == 0 {
		limit = 50
	}
	if limit < 1 || limit > 200 {
		return []model.AuditLog{}, validationError("invalid limit")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Limit:       limit,
	}
	switch model.AuditResourceType(in.ResourceType) {
	case "":
	case model.AuditResourceOrder, model.AuditResourceProduct:
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	default:
		return []model.AuditLog{}, validationError("invalid resource_type")
	}

	logs, err := u.logs.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, fromRepo(err, ErrNotFound)
	}
	return logs, nil
}

// 管理者だけの操作かを判定する（ポリシー表に従う）
func requireCapability(actor model.Identity, op policy.Operation) error {
	if !policy.Allow(op, actor.Role) {
		return newError(ErrForbidden, "forbidden")
	}
	return nil
}
