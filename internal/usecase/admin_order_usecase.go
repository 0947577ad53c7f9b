package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxStatusLen = 50

type AdminOrderUsecase struct {
	writer    orderWriter
	orders    repo.OrderRepository
	products  repo.ProductRepository
	customers repo.CustomerRepository
	users     repo.UserRepository
	audit     auditRecorder
	newID     func() string
}

func NewAdminOrderUsecase(
	orders repo.OrderRepository,
	products repo.ProductRepository,
	customers repo.CustomerRepository,
	users repo.UserRepository,
	queue repo.NotificationQueue,
	auditRepo repo.AuditLogRepository,
	log zerolog.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		writer:    orderWriter{orders: orders, queue: queue, log: log, now: time.Now},
		orders:    orders,
		products:  products,
		customers: customers,
		users:     users,
		audit:     auditRecorder{logs: auditRepo, log: log, now: time.Now},
		newID:     uuid.NewString,
	}
}

type AdminCreateOrderInput struct {
	CustomerRowKey   string
	CustomerUsername string
	ProductIDs       []string
	Quantity         int64
	Status           string
}

type AdminEditOrderInput struct {
	CustomerRowKey string
	ProductIDs     []string
	Quantity       int64
	TotalPrice     int64
	Status         string
	// 空なら読んだ時点のETagを使う
	ETag string
}

type AdminUpdateOrderStatusInput struct {
	Status string
	ETag   string
}

// 前後の空白を落として、空/長すぎるものは弾く。値の種類は制限しない。
func normalizeStatus(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxStatusLen {
		return "", validationError("invalid status")
	}
	return s, nil
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.SplitProductIDs(id)...)
	}
	return out
}

// CreateOrder は管理者が代理で注文を作る。
// 全商品が解決できたときだけ保存し、保存後に注文受付を通知する。
func (u *AdminOrderUsecase) CreateOrder(ctx context.Context, actor model.Identity, in AdminCreateOrderInput) (model.Order, error) {
	if err := requireCapability(actor, policy.OpManageOrders); err != nil {
		return model.Order{}, err
	}

	ids := normalizeIDs(in.ProductIDs)
	if len(ids) == 0 {
		return model.Order{}, validationError("product_ids is required")
	}
	if in.Quantity < 1 {
		return model.Order{}, validationError("invalid quantity")
	}
	customerKey := strings.TrimSpace(in.CustomerRowKey)
	if customerKey == "" {
		return model.Order{}, validationError("customer_row_key is required")
	}

	status := model.OrderStatusProcessing
	if strings.TrimSpace(in.Status) != "" {
		s, err := normalizeStatus(in.Status)
		if err != nil {
			return model.Order{}, err
		}
		status = s
	}

	// 1つでも見つからなければ何もしない
	var total int64
	for _, id := range ids {
		p, err := u.products.FindByRowKey(ctx, id)
		if err != nil {
			return model.Order{}, fromRepo(err, ErrProductNotFound)
		}
		total += p.Price * in.Quantity
	}

	username := strings.TrimSpace(in.CustomerUsername)
	if username == "" {
		username = lookupOrDefault(ctx, u.findUser, customerKey,
			func(usr *model.User) string { return usr.Username }, "")
	}

	order := model.Order{
		TableEntity:      model.TableEntity{RowKey: u.newID()},
		CustomerRowKey:   customerKey,
		CustomerUsername: username,
		ProductRowKeys:   model.JoinProductIDs(ids),
		Quantity:         in.Quantity,
		TotalPrice:       total,
		Status:           status,
	}
	return u.writer.persistThenNotify(ctx, order, true)
}

// 顧客のRowKeyはアカウントIDと同じなので、そこからユーザー名を引く
func (u *AdminOrderUsecase) findUser(ctx context.Context, key string) (*model.User, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, err
	}
	return u.users.FindByID(ctx, id)
}

// UpdateStatus は読んだ時点のETagで書き戻す。間に更新があれば409。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor model.Identity, orderID string, in AdminUpdateOrderStatusInput) (model.Order, error) {
	if err := requireCapability(actor, policy.OpManageOrders); err != nil {
		return model.Order{}, err
	}
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return model.Order{}, err
	}

	o, err := u.orders.FindByRowKey(ctx, orderID)
	if err != nil {
		return model.Order{}, fromRepo(err, ErrNotFound)
	}
	if in.ETag != "" {
		o.ETag = in.ETag
	}

	before := o.Status
	o.Status = status
	updated, err := u.orders.Replace(ctx, o)
	if err != nil {
		return model.Order{}, fromRepo(err, ErrNotFound)
	}

	u.audit.record(ctx, actor, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
		map[string]string{"status": before}, map[string]string{"status": status})
	return updated, nil
}

// EditOrder は注文の項目をまとめて置き換える。合計金額も入力値で上書きする。
func (u *AdminOrderUsecase) EditOrder(ctx context.Context, actor model.Identity, orderID string, in AdminEditOrderInput) (model.Order, error) {
	if err := requireCapability(actor, policy.OpManageOrders); err != nil {
		return model.Order{}, err
	}

	ids := normalizeIDs(in.ProductIDs)
	if len(ids) == 0 {
		return model.Order{}, validationError("product_ids is required")
	}
	if in.Quantity < 1 {
		return model.Order{}, validationError("invalid quantity")
	}
	if in.TotalPrice < 0 {
		return model.Order{}, validationError("invalid total_price")
	}
	if strings.TrimSpace(in.CustomerRowKey) == "" {
		return model.Order{}, validationError("customer_row_key is required")
	}
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return model.Order{}, err
	}

	existing, err := u.orders.FindByRowKey(ctx, orderID)
	if err != nil {
		return model.Order{}, fromRepo(err, ErrNotFound)
	}

	next := existing
	if in.ETag != "" {
		next.ETag = in.ETag
	}
	next.CustomerRowKey = strings.TrimSpace(in.CustomerRowKey)
	next.ProductRowKeys = model.JoinProductIDs(ids)
	next.Quantity = in.Quantity
	next.TotalPrice = in.TotalPrice
	next.Status = status

	updated, err := u.orders.Replace(ctx, next)
	if err != nil {
		return model.Order{}, fromRepo(err, ErrNotFound)
	}

	u.audit.record(ctx, actor, model.AuditActionUpdateOrder, model.AuditResourceOrder, orderID, existing, updated)
	return updated, nil
}

func (u *AdminOrderUsecase) DeleteOrder(ctx context.Context, actor model.Identity, orderID string) error {
	if err := requireCapability(actor, policy.OpManageOrders); err != nil {
		return err
	}

	existing, err := u.orders.FindByRowKey(ctx, orderID)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if err := u.orders.Delete(ctx, orderID); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	u.audit.record(ctx, actor, model.AuditActionDeleteOrder, model.AuditResourceOrder, orderID, existing, nil)
	return nil
}

// 管理画面で選べるステータス
func (u *AdminOrderUsecase) StatusOptions() []string {
	out := make([]string, len(model.OrderStatusOptions))
	copy(out, model.OrderStatusOptions)
	return out
}
