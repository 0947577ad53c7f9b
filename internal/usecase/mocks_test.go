package usecase

import (
	"context"
	"io"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) Insert(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) FindByRowKey(ctx context.Context, rowKey string) (model.Product, error) {
	args := m.Called(ctx, rowKey)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Replace(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Delete(ctx context.Context, rowKey string) error {
	return m.Called(ctx, rowKey).Error(0)
}

// 商品を登録しておくだけの簡易版
func productsWith(items ...model.Product) *ProductRepoMock {
	m := new(ProductRepoMock)
	for _, p := range items {
		m.On("FindByRowKey", mock.Anything, p.RowKey).Return(p, nil)
	}
	m.On("FindByRowKey", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrNotFound)
	return m
}

func product(id, name string, price int64) model.Product {
	return model.Product{TableEntity: model.TableEntity{RowKey: id}, Name: name, Price: price}
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) Insert(ctx context.Context, c model.Customer) (model.Customer, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *CustomerRepoMock) FindByRowKey(ctx context.Context, rowKey string) (model.Customer, error) {
	args := m.Called(ctx, rowKey)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) List(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Customer)
	return items, args.Error(1)
}

func (m *CustomerRepoMock) Replace(ctx context.Context, c model.Customer) (model.Customer, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Customer)
	return out, args.Error(1)
}

func (m *CustomerRepoMock) Delete(ctx context.Context, rowKey string) error {
	return m.Called(ctx, rowKey).Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Delete(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

type QueueMock struct{ mock.Mock }

func (m *QueueMock) EnsureExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *QueueMock) Send(ctx context.Context, payload string) error {
	return m.Called(ctx, payload).Error(0)
}

type BlobMock struct{ mock.Mock }

func (m *BlobMock) Put(ctx context.Context, dir, name string, r io.Reader) (string, error) {
	args := m.Called(ctx, dir, name, r)
	return args.String(0), args.Error(1)
}

func (m *BlobMock) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, dir, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *BlobMock) List(ctx context.Context, dir string) ([]repo.BlobInfo, error) {
	args := m.Called(ctx, dir)
	items, _ := args.Get(0).([]repo.BlobInfo)
	return items, args.Error(1)
}

func (m *BlobMock) Delete(ctx context.Context, dir, name string) error {
	return m.Called(ctx, dir, name).Error(0)
}

// =====================
// in-memory fakes
// =====================

// ETagの扱いまで再現した注文テーブル
type memOrders struct {
	mu      sync.Mutex
	rows    map[string]model.Order
	inserts int
	err     error
}

func newMemOrders() *memOrders {
	return &memOrders{rows: map[string]model.Order{}}
}

func (m *memOrders) Insert(ctx context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Order{}, m.err
	}
	if _, ok := m.rows[o.RowKey]; ok {
		return model.Order{}, repo.ErrAlreadyExists
	}
	o.PartitionKey = model.PartitionOrders
	o.ETag = uuid.NewString()
	m.rows[o.RowKey] = o
	m.inserts++
	return o, nil
}

func (m *memOrders) FindByRowKey(ctx context.Context, rowKey string) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[rowKey]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return []model.Order{}, m.err
	}
	out := []model.Order{}
	for _, o := range m.rows {
		if f.CustomerUsername != nil && o.CustomerUsername != *f.CustomerUsername {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) Replace(ctx context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[o.RowKey]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	if cur.ETag != o.ETag {
		return model.Order{}, repo.ErrConcurrencyConflict
	}
	o.ETag = uuid.NewString()
	m.rows[o.RowKey] = o
	return o, nil
}

func (m *memOrders) Delete(ctx context.Context, rowKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[rowKey]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, rowKey)
	return nil
}

type memSessions struct {
	mu   sync.Mutex
	data map[string]map[string]string
	err  error
	// 読み込みだけ失敗させる
	readErr error
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string]map[string]string{}}
}

func (s *memSessions) GetValue(ctx context.Context, sessionID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	if s.readErr != nil {
		return "", false, s.readErr
	}
	v, ok := s.data[sessionID][key]
	return v, ok, nil
}

func (s *memSessions) SetValue(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.data[sessionID] == nil {
		s.data[sessionID] = map[string]string{}
	}
	s.data[sessionID][key] = value
	return nil
}

func (s *memSessions) ClearValue(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[sessionID], key)
	return nil
}

func (s *memSessions) Destroy(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

var (
	alice = model.Identity{UserID: 7, Username: "alice", Role: model.RoleUser, SessionID: "sid-alice"}
	bob   = model.Identity{UserID: 8, Username: "bob", Role: model.RoleUser, SessionID: "sid-bob"}
	admin = model.Identity{UserID: 1, Username: "admin", Role: model.RoleAdmin, SessionID: "sid-admin"}
)
