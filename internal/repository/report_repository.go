package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 配達済み注文1件分（レポート集計の入力行）
type DeliveredOrderRow struct {
	OrderID      int64
	UserID       int64
	CustomerName string
	Phone        string
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
}

// 配達済み注文の明細1行分（商品ランキング用）
type DeliveredItemRow struct {
	ProductID   int64
	ProductName string
	ImageURL    string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// レポートは配達済み(delivered)の注文だけを対象にする。
// 集計そのものはusecase側で行い、ここは行の取得だけ。
type ReportRepository interface {
	DeliveredOrdersSince(ctx context.Context, since time.Time) ([]DeliveredOrderRow, error)
	DeliveredOrdersBetween(ctx context.Context, from, to time.Time) ([]DeliveredOrderRow, error)
	DeliveredItemsSince(ctx context.Context, since time.Time) ([]DeliveredItemRow, error)
}
