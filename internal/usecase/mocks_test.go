package usecase_test

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, version int64) error {
	args := m.Called(ctx, orderID, status, version)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64, version int64) error {
	args := m.Called(ctx, orderID, version)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) ListActiveCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *CatalogRepoMock) ListActiveProducts(ctx context.Context, categoryID *int64) ([]model.Product, error) {
	args := m.Called(ctx, categoryID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogRepoMock) FindProductByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogRepoMock) FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[int64]model.Product)
	return products, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Address)
	return items, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	args := m.Called(ctx, ids)
	names, _ := args.Get(0).(map[int64]string)
	return names, args.Error(1)
}

type AdminRoleRepoMock struct{ mock.Mock }

func (m *AdminRoleRepoMock) FindByUserID(ctx context.Context, userID int64) (model.AdminRole, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(model.AdminRole)
	return r, args.Error(1)
}

func (m *AdminRoleRepoMock) Upsert(ctx context.Context, role model.AdminRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

type PromotionRepoMock struct{ mock.Mock }

func (m *PromotionRepoMock) List(ctx context.Context) ([]model.Promotion, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Promotion)
	return items, args.Error(1)
}

func (m *PromotionRepoMock) FindByID(ctx context.Context, id int64) (model.Promotion, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Promotion)
	return p, args.Error(1)
}

func (m *PromotionRepoMock) Create(ctx context.Context, p model.Promotion) (model.Promotion, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Promotion)
	return created, args.Error(1)
}

func (m *PromotionRepoMock) Update(ctx context.Context, p model.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PromotionRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PromotionRepoMock) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) DeliveredOrdersSince(ctx context.Context, since time.Time) ([]repo.DeliveredOrderRow, error) {
	args := m.Called(ctx, since)
	rows, _ := args.Get(0).([]repo.DeliveredOrderRow)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) DeliveredOrdersBetween(ctx context.Context, from, to time.Time) ([]repo.DeliveredOrderRow, error) {
	args := m.Called(ctx, from, to)
	rows, _ := args.Get(0).([]repo.DeliveredOrderRow)
	return rows, args.Error(1)
}

func (m *ReportRepoMock) DeliveredItemsSince(ctx context.Context, since time.Time) ([]repo.DeliveredItemRow, error) {
	args := m.Called(ctx, since)
	rows, _ := args.Get(0).([]repo.DeliveredItemRow)
	return rows, args.Error(1)
}

// =====================
// Txまわりのスタブ
// =====================

// fakeTxRepos は差し込んだモックをそのまま返す
type fakeTxRepos struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	catalog   *CatalogRepoMock
	addresses *AddressRepoMock
}

func (f *fakeTxRepos) Orders() repo.OrderRepository         { return f.orders }
func (f *fakeTxRepos) OrderItems() repo.OrderItemRepository { return f.items }
func (f *fakeTxRepos) Catalog() repo.CatalogRepository      { return f.catalog }
func (f *fakeTxRepos) Addresses() repo.AddressRepository    { return f.addresses }

// fakeTxManager はトランザクションを張らずにそのままfnを実行する
type fakeTxManager struct {
	repos *fakeTxRepos
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{repos: &fakeTxRepos{
		orders:    &OrderRepoMock{},
		items:     &OrderItemRepoMock{},
		catalog:   &CatalogRepoMock{},
		addresses: &AddressRepoMock{},
	}}
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f.repos)
}
