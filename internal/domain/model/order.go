package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文ステータス（調理・配達の進行状況）
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// 支払いステータス（注文ステータスとは独立）
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
)

// 遷移表の順。cancelled は表の外。
var OrderStatusFlow = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// トラッカーに表示する5段階。ready は調理側の内部状態で表示には出さない。
var OrderTrackingStages = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// ParseOrderStatus は7種のいずれかであることを確認する
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodPix, PaymentMethodCreditCard, PaymentMethodDebitCard:
		return PaymentMethod(s), true
	default:
		return "", false
	}
}

// IsTerminal は delivered / cancelled を終端とする
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next は1段階だけ進めた次のステータスを返す。
// 終端（delivered / cancelled）はそのまま返す。
func (s OrderStatus) Next() OrderStatus {
	for i, st := range OrderStatusFlow {
		if st == s && i+1 < len(OrderStatusFlow) {
			return OrderStatusFlow[i+1]
		}
	}
	return s
}

// StageIndex は5段階トラッカー上の位置を返す（ready / cancelled / 不明値は -1）
func (s OrderStatus) StageIndex() int {
	for i, st := range OrderTrackingStages {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransition はステータス更新の唯一の判定箇所。
// 許可するのは「同じ値（no-op）」「表どおり1段階前進」「非終端からのキャンセル」だけ。
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s == to {
		return true
	}
	if to == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	return !s.IsTerminal() && s.Next() == to
}

type Order struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;index" json:"user_id"`
	AddressID int64 `gorm:"not null" json:"address_id"`

	//合計金額（注文明細の unit_price × quantity の合計と一致する）
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	OrderStatus   OrderStatus   `gorm:"type:varchar(20);not null;index" json:"order_status"`

	Notes string `gorm:"type:text" json:"notes"`

	//配達予定時間（分）
	EstimatedDeliveryMinutes int64 `gorm:"not null;default:45" json:"estimated_delivery_minutes"`

	//楽観ロック用。ステータス更新のたびに +1 する
	Version int64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
