package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CheckoutUsecase はカートの中身から注文＋注文明細を作る。
// 注文と明細の作成は1トランザクションにまとめる（孤児注文を作らない）。
type CheckoutUsecase struct {
	tx repo.TransactionManager
}

func NewCheckoutUsecase(tx repo.TransactionManager) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx}
}

type CheckoutItemInput struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note"`
}

type PlaceOrderInput struct {
	AddressID     int64               `json:"address_id"`
	PaymentMethod string              `json:"payment_method"`
	Notes         string              `json:"notes"`
	Items         []CheckoutItemInput `json:"items"`
}

// デフォルトの配達予定時間（分）
const defaultEstimatedDeliveryMinutes = 45

func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	//カートが空なら注文できない
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	method, ok := model.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid items")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//住所の存在確認＋所有チェック（他人の住所は存在しない扱い）
		addr, err := r.Addresses().FindByID(ctx, in.AddressID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if addr.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		//商品をまとめて引いて現在価格をスナップショット
		ids := make([]int64, 0, len(in.Items))
		for _, it := range in.Items {
			ids = append(ids, it.ProductID)
		}

		products, err := r.Catalog().FindProductsByIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(in.Items))
		total := decimal.Zero

		for _, it := range in.Items {
			p, ok := products[it.ProductID]
			if !ok || !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}

			//このタイミングの価格を凍結する
			orderItems = append(orderItems, model.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				Note:      it.Note,
			})

			total = total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
		}

		//注文作成
		order := model.Order{
			UserID:                   userID,
			AddressID:                in.AddressID,
			TotalAmount:              total,
			PaymentMethod:            method,
			PaymentStatus:            model.PaymentStatusPending,
			OrderStatus:              model.OrderStatusPending,
			Notes:                    in.Notes,
			EstimatedDeliveryMinutes: defaultEstimatedDeliveryMinutes,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildOrderOutput(ctx, r, created)
		if err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
