package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// =====================
// メモリ上のスタブ（注文1件と住所1件だけ持つ）
// =====================

type stubRepos struct {
	order   model.Order
	items   []model.OrderItem
	address model.Address
	product model.Product

	//UpdateStatusが呼ばれた回数
	statusUpdates int
}

func (s *stubRepos) Orders() repo.OrderRepository         { return (*stubOrderRepo)(s) }
func (s *stubRepos) OrderItems() repo.OrderItemRepository { return (*stubItemRepo)(s) }
func (s *stubRepos) Catalog() repo.CatalogRepository      { return (*stubCatalogRepo)(s) }
func (s *stubRepos) Addresses() repo.AddressRepository    { return (*stubAddressRepo)(s) }

func (s *stubRepos) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s)
}

type stubOrderRepo stubRepos

func (s *stubOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID != s.order.ID {
		return model.Order{}, repo.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	return []model.Order{s.order}, 1, nil
}

func (s *stubOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	return s.order.ID, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, version int64) error {
	s.order.OrderStatus = status
	s.order.Version++
	s.statusUpdates++
	return nil
}

func (s *stubOrderRepo) MarkPaid(ctx context.Context, orderID int64, version int64) error {
	s.order.PaymentStatus = model.PaymentStatusPaid
	s.order.OrderStatus = model.OrderStatusConfirmed
	s.order.Version++
	return nil
}

func (s *stubOrderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, error) {
	return []model.Order{s.order}, nil
}

type stubItemRepo stubRepos

func (s *stubItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return nil
}

func (s *stubItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return s.items, nil
}

type stubCatalogRepo stubRepos

func (s *stubCatalogRepo) ListActiveCategories(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}

func (s *stubCatalogRepo) ListActiveProducts(ctx context.Context, categoryID *int64) ([]model.Product, error) {
	return nil, nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, id int64) (model.Product, error) {
	return s.product, nil
}

func (s *stubCatalogRepo) FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	return map[int64]model.Product{s.product.ID: s.product}, nil
}

type stubAddressRepo stubRepos

func (s *stubAddressRepo) Create(ctx context.Context, address model.Address) (model.Address, error) {
	return address, nil
}

func (s *stubAddressRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	return []model.Address{s.address}, nil
}

func (s *stubAddressRepo) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	return s.address, nil
}

func (s *stubAddressRepo) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	return 1, nil
}

func (s *stubAddressRepo) SetDefault(ctx context.Context, userID, addressID int64) error {
	return nil
}

func newStubRepos(status model.OrderStatus) *stubRepos {
	d, _ := decimal.NewFromString("39.90")
	return &stubRepos{
		order: model.Order{
			ID: 100, UserID: 1, AddressID: 5,
			OrderStatus:   status,
			PaymentStatus: model.PaymentStatusPending,
			PaymentMethod: model.PaymentMethodPix,
			TotalAmount:   d,

			EstimatedDeliveryMinutes: 45,
		},
		items:   []model.OrderItem{{ID: 1, OrderID: 100, ProductID: 10, Quantity: 1, UnitPrice: d}},
		address: model.Address{ID: 5, UserID: 1, Street: "Rua A", Number: "10", Neighborhood: "Centro", City: "SP", State: "SP", ZipCode: "01000-000"},
		product: model.Product{ID: 10, Name: "Pizza", Price: d, IsActive: true},
	}
}

func newOrderEcho(repos *stubRepos) *echo.Echo {
	e := echo.New()

	orderUC := usecase.NewOrderUsecase(repos, 0)
	checkoutUC := usecase.NewCheckoutUsecase(repos)
	h := handler.NewOrderHandler(orderUC, checkoutUC)

	//AuthJWTの代わりにuser_idを直接差し込む
	g := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserIDKey, int64(1))
			c.Set(middleware.CtxUserRoleKey, "USER")
			return next(c)
		}
	})
	h.RegisterRoutes(g)

	return e
}

// 未知ステータスは400で、注文は変更されない
func TestPatchStatusRejectsBogusValue(t *testing.T) {
	repos := newStubRepos(model.OrderStatusPending)
	e := newOrderEcho(repos)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/100/status",
		strings.NewReader(`{"status":"bogus"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid status", body["error"])

	assert.Equal(t, 0, repos.statusUpdates)
	assert.Equal(t, model.OrderStatusPending, repos.order.OrderStatus)
}

func TestPatchStatusAdvances(t *testing.T) {
	repos := newStubRepos(model.OrderStatusPending)
	e := newOrderEcho(repos)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/100/status",
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body["order_status"])
	assert.Equal(t, model.OrderStatusConfirmed, repos.order.OrderStatus)
}

// preparing中は配達員・位置情報はnull
func TestTrackPreparingHidesCourier(t *testing.T) {
	repos := newStubRepos(model.OrderStatusPreparing)
	e := newOrderEcho(repos)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/100/track", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "preparing", body["status"])
	assert.Nil(t, body["deliveryPerson"])
	assert.Nil(t, body["location"])

	stages := body["stages"].([]interface{})
	assert.Len(t, stages, 5)
}

// 一覧は items + total の形
func TestListOrdersReturnsItemsAndTotal(t *testing.T) {
	repos := newStubRepos(model.OrderStatusPending)
	e := newOrderEcho(repos)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["total"])

	items := body["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	repos := newStubRepos(model.OrderStatusPending)
	e := newOrderEcho(repos)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/999", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayReturnsReceipt(t *testing.T) {
	repos := newStubRepos(model.OrderStatusPending)
	e := newOrderEcho(repos)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/100/payment",
		strings.NewReader(`{"paymentData":{"method":"pix"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Payment processed successfully", body["message"])
	assert.NotEmpty(t, body["transaction_id"])

	assert.Equal(t, model.PaymentStatusPaid, repos.order.PaymentStatus)
	assert.Equal(t, model.OrderStatusConfirmed, repos.order.OrderStatus)
}
