package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 利用者向けの注文一覧フィルタ
type OrderListFilter struct {
	Status string
	Limit  int
	Offset int
}

// 管理者向けの注文一覧フィルタ。
// Search（顧客名 or 注文IDの部分一致）と Tab の絞り込みはusecase側で行う。
// To は排他（created_at < To）。
type AdminOrderListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//ステータス更新は version の一致を条件にしたCASで行う。
	//行が無い or versionがずれている場合は RowsAffected=0 になるので、
	//実装側でFindし直して ErrNotFound / ErrConflict を区別して返す。
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, version int64) error

	//決済完了。payment_status と order_status を同時に更新する（CAS付き）。
	MarkPaid(ctx context.Context, orderID int64, version int64) error

	//管理者用の注文一覧（新しい順）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
