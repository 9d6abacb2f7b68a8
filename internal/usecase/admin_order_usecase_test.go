package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminAdvanceMovesOneStepAndAudits(t *testing.T) {
	tx := newFakeTxManager()
	users := &UserRepoMock{}
	audit := &AuditLogRepoMock{}
	uc := usecase.NewAdminOrderUsecase(tx, users, audit)

	before := model.Order{ID: 100, UserID: 1, AddressID: 5, OrderStatus: model.OrderStatusConfirmed, TotalAmount: price("39.90"), Version: 1}
	after := before
	after.OrderStatus = model.OrderStatusPreparing
	after.Version = 2

	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).Return(before, nil).Once()
	tx.repos.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusPreparing, int64(1)).Return(nil)
	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).Return(after, nil)
	stubOrderDetail(tx, after)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 7 &&
			l.Action == model.AuditActionAdvanceOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 100 &&
			l.BeforeJSON == `{"status":"confirmed"}` &&
			l.AfterJSON == `{"status":"preparing"}`
	})).Return(nil)

	out, err := uc.Advance(context.Background(), 7, 100)

	assert.NoError(t, err)
	assert.Equal(t, "preparing", out.OrderStatus)
	tx.repos.orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestAdminAdvanceTerminalOrder(t *testing.T) {
	tx := newFakeTxManager()
	uc := usecase.NewAdminOrderUsecase(tx, &UserRepoMock{}, &AuditLogRepoMock{})

	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, AddressID: 5, OrderStatus: model.OrderStatusDelivered}, nil)

	_, err := uc.Advance(context.Background(), 7, 100)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	tx.repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminCancelNonTerminalOrder(t *testing.T) {
	tx := newFakeTxManager()
	audit := &AuditLogRepoMock{}
	uc := usecase.NewAdminOrderUsecase(tx, &UserRepoMock{}, audit)

	before := model.Order{ID: 100, UserID: 1, AddressID: 5, OrderStatus: model.OrderStatusOutForDelivery, Version: 4}
	after := before
	after.OrderStatus = model.OrderStatusCancelled
	after.Version = 5

	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).Return(before, nil).Once()
	tx.repos.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusCancelled, int64(4)).Return(nil)
	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).Return(after, nil)
	stubOrderDetail(tx, after)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Cancel(context.Background(), 7, 100)

	assert.NoError(t, err)
	assert.Equal(t, "cancelled", out.OrderStatus)
}

func TestAdminCancelDeliveredOrder(t *testing.T) {
	tx := newFakeTxManager()
	uc := usecase.NewAdminOrderUsecase(tx, &UserRepoMock{}, &AuditLogRepoMock{})

	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, AddressID: 5, OrderStatus: model.OrderStatusDelivered}, nil)

	_, err := uc.Cancel(context.Background(), 7, 100)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestAdminUpdateStatusConflict(t *testing.T) {
	tx := newFakeTxManager()
	uc := usecase.NewAdminOrderUsecase(tx, &UserRepoMock{}, &AuditLogRepoMock{})

	tx.repos.orders.On("FindByID", mock.Anything, int64(100)).
		Return(model.Order{ID: 100, AddressID: 5, OrderStatus: model.OrderStatusPending, Version: 2}, nil)
	tx.repos.orders.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusConfirmed, int64(2)).
		Return(repo.ErrConflict)

	_, err := uc.UpdateStatus(context.Background(), 7, 100, "confirmed")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestAdminListSearchAndTabs(t *testing.T) {
	tx := newFakeTxManager()
	users := &UserRepoMock{}
	uc := usecase.NewAdminOrderUsecase(tx, users, &AuditLogRepoMock{})

	orders := []model.Order{
		{ID: 100, UserID: 1, AddressID: 5, OrderStatus: model.OrderStatusPreparing, TotalAmount: price("39.90")},
		{ID: 101, UserID: 2, AddressID: 5, OrderStatus: model.OrderStatusDelivered, TotalAmount: price("8.50")},
		{ID: 102, UserID: 1, AddressID: 5, OrderStatus: model.OrderStatusCancelled, TotalAmount: price("20.00")},
	}

	tx.repos.orders.On("ListAdmin", mock.Anything, repo.AdminOrderListFilter{}).Return(orders, nil)
	users.On("FindNamesByIDs", mock.Anything, []int64{1, 2, 1}).
		Return(map[int64]string{1: "Maria Souza", 2: "Pedro Lima"}, nil)
	for _, o := range orders {
		stubOrderDetail(tx, o)
	}

	//activeタブ: 終端（delivered/cancelled）は出ない
	out, err := uc.List(context.Background(), usecase.AdminOrderListInput{Tab: usecase.AdminOrderTabActive})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(100), out[0].ID)
	assert.Equal(t, "Maria Souza", out[0].CustomerName)

	//completedタブ: 終端だけ
	out, err = uc.List(context.Background(), usecase.AdminOrderListInput{Tab: usecase.AdminOrderTabCompleted})
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	//検索は顧客名の部分一致（大文字小文字無視）
	out, err = uc.List(context.Background(), usecase.AdminOrderListInput{Search: "maria"})
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	//注文IDの部分一致でも引ける
	out, err = uc.List(context.Background(), usecase.AdminOrderListInput{Search: "101"})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(101), out[0].ID)
}

// From/To は日付指定（Toの日も含む＝翌日0時を排他境界として渡す）
func TestAdminListDateRange(t *testing.T) {
	tx := newFakeTxManager()
	users := &UserRepoMock{}
	uc := usecase.NewAdminOrderUsecase(tx, users, &AuditLogRepoMock{})

	tx.repos.orders.On("ListAdmin", mock.Anything, mock.MatchedBy(func(f repo.AdminOrderListFilter) bool {
		return f.From != nil && f.From.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To != nil && f.To.Equal(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC))
	})).Return([]model.Order{}, nil)
	users.On("FindNamesByIDs", mock.Anything, []int64{}).Return(map[int64]string{}, nil)

	out, err := uc.List(context.Background(), usecase.AdminOrderListInput{
		From: "2026-08-01",
		To:   "2026-08-15",
	})

	assert.NoError(t, err)
	assert.Empty(t, out)
	tx.repos.orders.AssertExpectations(t)
}

func TestAdminListRejectsBadDate(t *testing.T) {
	uc := usecase.NewAdminOrderUsecase(newFakeTxManager(), &UserRepoMock{}, &AuditLogRepoMock{})

	for _, in := range []usecase.AdminOrderListInput{
		{From: "15/08/2026"},
		{To: "not-a-date"},
	} {
		_, err := uc.List(context.Background(), in)
		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, 400, he.Status)
	}
}

func TestAdminListRejectsUnknownStatus(t *testing.T) {
	uc := usecase.NewAdminOrderUsecase(newFakeTxManager(), &UserRepoMock{}, &AuditLogRepoMock{})

	_, err := uc.List(context.Background(), usecase.AdminOrderListInput{Status: "bogus"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}
