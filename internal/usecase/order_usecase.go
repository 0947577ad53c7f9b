package usecase

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type OrderUsecase struct {
	writer    orderWriter
	orders    repo.OrderRepository
	products  repo.ProductRepository
	customers repo.CustomerRepository
	cart      *CartUsecase
	log       zerolog.Logger

	// セルフチェックアウトでも注文受付を通知するか
	notifyOnCheckout bool
	newID            func() string
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	products repo.ProductRepository,
	customers repo.CustomerRepository,
	queue repo.NotificationQueue,
	cart *CartUsecase,
	notifyOnCheckout bool,
	log zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		writer:           orderWriter{orders: orders, queue: queue, log: log, now: time.Now},
		orders:           orders,
		products:         products,
		customers:        customers,
		cart:             cart,
		log:              log,
		notifyOnCheckout: notifyOnCheckout,
		newID:            uuid.NewString,
	}
}

// Checkout はカートの中身で注文を1件作る。
// 合計は今カートにある価格スナップショットで計算し、以後は再計算しない。
// 保存できたときだけカートを空にする。
func (u *OrderUsecase) Checkout(ctx context.Context, actor model.Identity) (model.Order, error) {
	if !policy.Allow(policy.OpCheckout, actor.Role) {
		return model.Order{}, newError(ErrForbidden, "forbidden")
	}

	items, err := u.cart.loadCart(ctx, actor.SessionID)
	if err != nil {
		return model.Order{}, err
	}
	if len(items) == 0 {
		return model.Order{}, newError(ErrEmptyCart, "cart is empty")
	}

	ids := make([]string, 0, len(items))
	var qty, total int64
	for _, it := range items {
		ids = append(ids, it.ProductID)
		qty += it.Quantity
		total += it.Total()
	}

	order := model.Order{
		TableEntity:      model.TableEntity{RowKey: u.newID()},
		CustomerRowKey:   actor.CustomerRowKey(),
		CustomerUsername: actor.Username,
		ProductRowKeys:   model.JoinProductIDs(ids),
		Quantity:         qty,
		TotalPrice:       total,
		Status:           model.OrderStatusProcessing,
	}

	saved, err := u.writer.persistThenNotify(ctx, order, u.notifyOnCheckout)
	if err != nil {
		return model.Order{}, err
	}

	// 注文はできているのでカートを消せなくても成功として返す
	if err := u.cart.Clear(ctx, actor.SessionID); err != nil {
		u.log.Warn().Err(err).Str("order_id", saved.RowKey).Msg("cart clear after checkout failed")
	}
	return saved, nil
}

// ListOrders は管理者なら全件、それ以外は自分の注文だけ
func (u *OrderUsecase) ListOrders(ctx context.Context, actor model.Identity, status string) ([]model.Order, error) {
	if !policy.Allow(policy.OpListOrders, actor.Role) {
		return []model.Order{}, newError(ErrForbidden, "forbidden")
	}

	f := repo.OrderListFilter{Status: strings.TrimSpace(status)}
	if !policy.Allow(policy.OpViewAllOrders, actor.Role) {
		name := actor.Username
		f.CustomerUsername = &name
	}

	orders, err := u.orders.List(ctx, f)
	if err != nil {
		return []model.Order{}, fromRepo(err, ErrNotFound)
	}
	for i := range orders {
		orders[i] = u.PopulateDetails(ctx, orders[i])
	}
	return orders, nil
}

// GetOrderDetail は持ち主か管理者だけが見られる
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, actor model.Identity, orderID string) (model.Order, error) {
	o, err := u.orders.FindByRowKey(ctx, orderID)
	if err != nil {
		return model.Order{}, fromRepo(err, ErrNotFound)
	}
	if !policy.Allow(policy.OpViewAllOrders, actor.Role) && o.CustomerUsername != actor.Username {
		return model.Order{}, newError(ErrForbidden, "forbidden")
	}
	return u.PopulateDetails(ctx, o), nil
}

// PopulateDetails は表示用の名前を埋める。失敗しないし保存もしない。
// 見つからない顧客/商品は "Unknown"。
func (u *OrderUsecase) PopulateDetails(ctx context.Context, o model.Order) model.Order {
	o.CustomerName = lookupOrDefault(ctx, u.customers.FindByRowKey, o.CustomerRowKey,
		func(c model.Customer) string { return c.DisplayName() }, model.UnknownName)

	ids := o.ProductIDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, lookupOrDefault(ctx, u.products.FindByRowKey, id,
			func(p model.Product) string { return p.Name }, model.UnknownName))
	}
	o.ProductNames = names
	return o
}
