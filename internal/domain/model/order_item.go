package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。unit_price は注文時点のカタログ価格のスナップショットで、
// 以後の商品価格の変更には追従しない。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	//注文時点の単価
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`

	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
