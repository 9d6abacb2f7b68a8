package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func ParseDiscountType(s string) (DiscountType, bool) {
	switch DiscountType(s) {
	case DiscountTypePercentage, DiscountTypeFixed:
		return DiscountType(s), true
	default:
		return "", false
	}
}

// 割引ルール。
// active フラグと「期間内かどうか」は別物で、表示用の有効判定は
// IsCurrentlyActive が行う。
type Promotion struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	DiscountType  DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount_value"`

	//この金額以上の注文にだけ適用
	MinOrderValue decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"min_order_value"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	Active bool `gorm:"not null;default:true" json:"active"`

	//NULL は無制限
	UsageLimit *int64 `gorm:"default:null" json:"usage_limit"`
	UsageCount int64  `gorm:"not null;default:0" json:"usage_count"`

	//クーポンコード（大文字で保存、NULL可）
	Code *string `gorm:"type:varchar(50)" json:"code"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// IsCurrentlyActive は「フラグON かつ 今が有効期間内」
func (p *Promotion) IsCurrentlyActive(now time.Time) bool {
	return p.Active && !now.Before(p.StartDate) && !now.After(p.EndDate)
}
