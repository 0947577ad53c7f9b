package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/rs/zerolog"
)

// セッション内でカートを持つキー
const cartSessionKey = "Cart"

// CartUsecase はセッションに置いたカートの操作。
// sessionIDごとに独立していて、ログイン中のセッションが切れれば消える。
type CartUsecase struct {
	sessions repo.SessionStore
	products repo.ProductRepository
	log      zerolog.Logger
}

func NewCartUsecase(sessions repo.SessionStore, products repo.ProductRepository, log zerolog.Logger) *CartUsecase {
	return &CartUsecase{sessions: sessions, products: products, log: log}
}

type CartResponse struct {
	Items []model.CartItem `json:"items"`
	Total int64            `json:"total"`
}

func NewCartResponse(items []model.CartItem) CartResponse {
	return CartResponse{Items: items, Total: CartTotal(items)}
}

func CartTotal(items []model.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Total()
	}
	return total
}

// GetCart は失敗しない。読めない/壊れている場合は空のカート。
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) []model.CartItem {
	items, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return []model.CartItem{}
	}
	return items
}

// 書き換える前の読み込み。ストアに届かなければエラーにして、元のカートは触らない。
// 中身が壊れているだけなら空として扱う。
func (u *CartUsecase) loadCart(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if sessionID == "" {
		return items, nil
	}

	raw, ok, err := u.sessions.GetValue(ctx, sessionID, cartSessionKey)
	if err != nil {
		u.log.Warn().Err(err).Msg("cart read failed")
		return nil, newError(ErrUnavailable, "service temporarily unavailable")
	}
	if !ok || raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		u.log.Warn().Err(err).Msg("cart decode failed, treated as empty")
		return []model.CartItem{}, nil
	}
	return items, nil
}

// 同じ商品があれば数量+1、無ければ名前と価格を今の値で追加
func (u *CartUsecase) Add(ctx context.Context, sessionID, productID string) ([]model.CartItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, validationError("invalid product_id")
	}

	p, err := u.products.FindByRowKey(ctx, productID)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}

	items, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{
			ProductID:   p.RowKey,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    1,
		})
	}

	if err := u.save(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// 無い商品なら何もしない
func (u *CartUsecase) Remove(ctx context.Context, sessionID, productID string) ([]model.CartItem, error) {
	productID = strings.TrimSpace(productID)
	items, err := u.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	kept := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return items, nil
	}

	if err := u.save(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	if err := u.sessions.ClearValue(ctx, sessionID, cartSessionKey); err != nil {
		return fromRepo(err, ErrNotFound)
	}
	return nil
}

func (u *CartUsecase) save(ctx context.Context, sessionID string, items []model.CartItem) error {
	if sessionID == "" {
		return newError(ErrUnauthorized, "no session")
	}
	b, err := json.Marshal(items)
	if err != nil {
		return newError(ErrUnavailable, "service temporarily unavailable")
	}
	if err := u.sessions.SetValue(ctx, sessionID, cartSessionKey, string(b)); err != nil {
		return fromRepo(err, ErrNotFound)
	}
	return nil
}
