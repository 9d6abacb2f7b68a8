package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// OrderUsecase は利用者向けの注文参照・ステータス更新・決済・追跡。
type OrderUsecase struct {
	tx repo.TransactionManager

	//決済シミュレーションの固定待ち時間（テストでは0にする）
	paymentDelay time.Duration
}

func NewOrderUsecase(tx repo.TransactionManager, paymentDelay time.Duration) *OrderUsecase {
	return &OrderUsecase{tx: tx, paymentDelay: paymentDelay}
}

type OrderItemOutput struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	UnitPrice string `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

type OrderAddressOutput struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

type OrderOutput struct {
	ID                       int64              `json:"id"`
	UserID                   int64              `json:"user_id"`
	OrderStatus              string             `json:"order_status"`
	PaymentStatus            string             `json:"payment_status"`
	PaymentMethod            string             `json:"payment_method"`
	TotalAmount              string             `json:"total_amount"`
	Notes                    string             `json:"notes,omitempty"`
	EstimatedDeliveryMinutes int64              `json:"estimated_delivery_minutes"`
	CreatedAt                time.Time          `json:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at"`
	Address                  OrderAddressOutput `json:"address"`
	Items                    []OrderItemOutput  `json:"items"`
}

type ListOrdersInput struct {
	Status string
	Limit  int
	Offset int
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`

	//ページングに関係なく条件に合う全件数
	Total int64 `json:"total"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, in ListOrdersInput) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if in.Status != "" {
		if _, ok := model.ParseOrderStatus(in.Status); !ok {
			return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 10
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	out := OrderListOutput{Items: []OrderOutput{}}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByUserID(ctx, userID, repo.OrderListFilter{
			Status: in.Status,
			Limit:  in.Limit,
			Offset: in.Offset,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out.Total = total
		for _, o := range orders {
			item, err := buildOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, item)
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findOwnedOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		out, err = buildOrderOutput(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus は利用者側の汎用ステータス更新。
// 7種のメンバーシップ確認（400）→遷移表の検証（400）→CAS更新（競合は409）。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, userID int64, orderID int64, status string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus, ok := model.ParseOrderStatus(status)
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findOwnedOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		//遷移表に無い更新は拒否する
		if !o.OrderStatus.CanTransition(newStatus) {
			return NewHTTPError(http.StatusBadRequest, "invalid transition")
		}

		if o.OrderStatus != newStatus {
			if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, o.Version); err != nil {
				return statusUpdateError(err)
			}
		}

		updated, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildOrderOutput(ctx, r, updated)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type PaymentInput struct {
	PaymentData map[string]interface{} `json:"paymentData"`
}

type PaymentReceipt struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	TransactionID string                 `json:"transaction_id"`
	PaymentData   map[string]interface{} `json:"paymentData,omitempty"`
}

// Pay は決済のシミュレーション。固定の待ち時間のあと必ず成功し、
// payment_status=paid / order_status=confirmed にする。
func (u *OrderUsecase) Pay(ctx context.Context, userID int64, orderID int64, in PaymentInput) (PaymentReceipt, error) {
	if userID <= 0 {
		return PaymentReceipt{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PaymentReceipt{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//決済処理の遅延を再現する
	if u.paymentDelay > 0 {
		select {
		case <-time.After(u.paymentDelay):
		case <-ctx.Done():
			return PaymentReceipt{}, NewHTTPError(http.StatusInternalServerError, "cancelled")
		}
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.findOwnedOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		if err := r.Orders().MarkPaid(ctx, orderID, o.Version); err != nil {
			return statusUpdateError(err)
		}
		return nil
	})

	if err != nil {
		return PaymentReceipt{}, err
	}

	return PaymentReceipt{
		Success:       true,
		Message:       "Payment processed successfully",
		TransactionID: uuid.NewString(),
		PaymentData:   in.PaymentData,
	}, nil
}

// 1ステージあたりの表示用の想定所要時間
const stageInterval = 10 * time.Minute

type TrackingStage struct {
	Key     string     `json:"key"`
	Reached bool       `json:"reached"`
	Time    *time.Time `json:"time,omitempty"`
}

type DeliveryPerson struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle string  `json:"vehicle"`
	Plate   string  `json:"plate"`
	Rating  float64 `json:"rating"`
}

type DeliveryLocation struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Address    string    `json:"address"`
	LastUpdate time.Time `json:"lastUpdate"`
}

type TrackingOutput struct {
	OrderID           int64             `json:"orderId"`
	Status            string            `json:"status"`
	EstimatedDelivery time.Time         `json:"estimatedDelivery"`
	Stages            []TrackingStage   `json:"stages"`
	DeliveryPerson    *DeliveryPerson   `json:"deliveryPerson"`
	Location          *DeliveryLocation `json:"location"`
}

// Track は5段階トラッカーの表示用データを組み立てる。
// ready は表示ステージに含めない（該当中はどのステージにも到達扱いにしない）。
// 各ステージの時刻は「作成時刻 + ステージ番号×10分」の推定値で、記録された事実ではない。
func (u *OrderUsecase) Track(ctx context.Context, userID int64, orderID int64) (TrackingOutput, error) {
	if userID <= 0 {
		return TrackingOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return TrackingOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var o model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := u.findOwnedOrder(ctx, r, userID, orderID)
		if err != nil {
			return err
		}
		o = found
		return nil
	})
	if err != nil {
		return TrackingOutput{}, err
	}

	currentIndex := o.OrderStatus.StageIndex()

	stages := make([]TrackingStage, 0, len(model.OrderTrackingStages))
	for i, st := range model.OrderTrackingStages {
		stage := TrackingStage{Key: string(st)}
		if currentIndex >= 0 && i <= currentIndex {
			stage.Reached = true
			t := o.CreatedAt.Add(time.Duration(i) * stageInterval)
			stage.Time = &t
		}
		stages = append(stages, stage)
	}

	out := TrackingOutput{
		OrderID:           o.ID,
		Status:            string(o.OrderStatus),
		EstimatedDelivery: o.CreatedAt.Add(time.Duration(o.EstimatedDeliveryMinutes) * time.Minute),
		Stages:            stages,
	}

	//配達員と現在地は配達中のときだけ入る
	if o.OrderStatus == model.OrderStatusOutForDelivery {
		out.DeliveryPerson = &DeliveryPerson{
			Name:    "João Silva",
			Phone:   "(11) 99999-9999",
			Vehicle: "Moto Honda CG 160",
			Plate:   "ABC-1234",
			Rating:  4.8,
		}
		out.Location = &DeliveryLocation{
			Lat:        -23.5505,
			Lng:        -46.6333,
			Address:    "A caminho do seu endereço",
			LastUpdate: time.Now(),
		}
	}

	return out, nil
}

// 他人の注文は「存在しない扱い」にする
func (u *OrderUsecase) findOwnedOrder(ctx context.Context, r repo.TxRepos, userID int64, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}

func statusUpdateError(err error) error {
	switch err {
	case repo.ErrNotFound:
		return NewHTTPError(http.StatusNotFound, "not found")
	case repo.ErrConflict:
		return NewHTTPError(http.StatusConflict, "conflict")
	default:
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
}

// buildOrderOutput は住所と明細（商品解決済み）を含めた注文DTOを組み立てる。
// 商品が解決できない明細はエラーにする（欠けたままの表示はしない）。
func buildOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	addr, err := r.Addresses().FindByID(ctx, o.AddressID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := r.Catalog().FindProductsByIDs(ctx, ids)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			//商品行が消えている注文明細は不整合として扱う
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "inconsistent order data")
		}

		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			Note:      it.Note,
		})
	}

	return OrderOutput{
		ID:                       o.ID,
		UserID:                   o.UserID,
		OrderStatus:              string(o.OrderStatus),
		PaymentStatus:            string(o.PaymentStatus),
		PaymentMethod:            string(o.PaymentMethod),
		TotalAmount:              o.TotalAmount.StringFixed(2),
		Notes:                    o.Notes,
		EstimatedDeliveryMinutes: o.EstimatedDeliveryMinutes,
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
		Address: OrderAddressOutput{
			Street:       addr.Street,
			Number:       addr.Number,
			Complement:   addr.Complement,
			Neighborhood: addr.Neighborhood,
			City:         addr.City,
			State:        addr.State,
			ZipCode:      addr.ZipCode,
		},
		Items: outItems,
	}, nil
}
