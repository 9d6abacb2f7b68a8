package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, users repo.UserRepository, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, users: users, auditRepo: auditRepo}
}

// 一覧のタブ。active = 配達済み・キャンセル以外。
const (
	AdminOrderTabActive    = "active"
	AdminOrderTabCompleted = "completed"
)

type AdminOrderListInput struct {
	Status string
	Search string
	Tab    string

	//注文日の範囲（"2006-01-02"形式、Toの日も含む）
	From string
	To   string
}

const adminOrderDateLayout = "2006-01-02"

type AdminOrderOutput struct {
	OrderOutput
	CustomerName string `json:"customer_name"`
}

// List は全注文を顧客名・住所・明細つきで返す。
// 検索（顧客名 or 注文IDの部分一致、大文字小文字無視）とタブの
// 絞り込みは取得後にここで行う。
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) ([]AdminOrderOutput, error) {
	if in.Status != "" {
		if _, ok := model.ParseOrderStatus(in.Status); !ok {
			return []AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}
	if in.Tab != "" && in.Tab != AdminOrderTabActive && in.Tab != AdminOrderTabCompleted {
		return []AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid tab")
	}

	filter := repo.AdminOrderListFilter{Status: in.Status}

	if in.From != "" {
		from, err := time.Parse(adminOrderDateLayout, in.From)
		if err != nil {
			return []AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(adminOrderDateLayout, in.To)
		if err != nil {
			return []AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		//指定日いっぱいまで含めるため翌日0時を排他境界にする
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	var outs []AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAdmin(ctx, filter)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//顧客名をまとめて解決
		userIDs := make([]int64, 0, len(orders))
		for _, o := range orders {
			userIDs = append(userIDs, o.UserID)
		}
		names, err := u.users.FindNamesByIDs(ctx, userIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		search := strings.ToLower(strings.TrimSpace(in.Search))

		outs = make([]AdminOrderOutput, 0, len(orders))
		for _, o := range orders {
			name := names[o.UserID]

			if search != "" {
				idStr := strconv.FormatInt(o.ID, 10)
				if !strings.Contains(strings.ToLower(name), search) &&
					!strings.Contains(idStr, search) {
					continue
				}
			}

			if in.Tab == AdminOrderTabActive && o.OrderStatus.IsTerminal() {
				continue
			}
			if in.Tab == AdminOrderTabCompleted && !o.OrderStatus.IsTerminal() {
				continue
			}

			out, err := buildOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, AdminOrderOutput{OrderOutput: out, CustomerName: name})
		}
		return nil
	})

	if err != nil {
		return []AdminOrderOutput{}, err
	}
	return outs, nil
}

// Advance はステータスを表のとおり1段階だけ進める。
// 終端（delivered / cancelled）は進めない。
func (u *AdminOrderUsecase) Advance(ctx context.Context, actorAdminUserID int64, orderID int64) (OrderOutput, error) {
	return u.mutateStatus(ctx, actorAdminUserID, orderID, model.AuditActionAdvanceOrderStatus,
		func(o model.Order) (model.OrderStatus, error) {
			if o.OrderStatus.IsTerminal() {
				return "", NewHTTPError(http.StatusBadRequest, "cannot advance terminal order")
			}
			return o.OrderStatus.Next(), nil
		})
}

// Cancel は非終端の注文をキャンセルする（唯一の強制パス）。
func (u *AdminOrderUsecase) Cancel(ctx context.Context, actorAdminUserID int64, orderID int64) (OrderOutput, error) {
	return u.mutateStatus(ctx, actorAdminUserID, orderID, model.AuditActionCancelOrder,
		func(o model.Order) (model.OrderStatus, error) {
			if o.OrderStatus.IsTerminal() {
				return "", NewHTTPError(http.StatusBadRequest, "cannot cancel terminal order")
			}
			return model.OrderStatusCancelled, nil
		})
}

// UpdateStatus は汎用の更新。メンバーシップと遷移表の両方を検証する。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, status string) (OrderOutput, error) {
	newStatus, ok := model.ParseOrderStatus(status)
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.mutateStatus(ctx, actorAdminUserID, orderID, model.AuditActionUpdateOrderStatus,
		func(o model.Order) (model.OrderStatus, error) {
			if !o.OrderStatus.CanTransition(newStatus) {
				return "", NewHTTPError(http.StatusBadRequest, "invalid transition")
			}
			return newStatus, nil
		})
}

func (u *AdminOrderUsecase) mutateStatus(
	ctx context.Context,
	actorAdminUserID int64,
	orderID int64,
	action model.AuditAction,
	decide func(o model.Order) (model.OrderStatus, error),
) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		newStatus, err := decide(o)
		if err != nil {
			return err
		}

		beforeStatus := string(o.OrderStatus)

		if o.OrderStatus != newStatus {
			//versionが動いていたら409（同時更新の検出）
			if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, o.Version); err != nil {
				return statusUpdateError(err)
			}

			//監査ログ
			beforeJSON := `{"status":"` + beforeStatus + `"}`
			afterJSON := `{"status":"` + string(newStatus) + `"}`
			if err := u.auditRepo.Create(ctx, model.AuditLog{
				ActorUserID:  actorAdminUserID,
				Action:       action,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				BeforeJSON:   beforeJSON,
				AfterJSON:    afterJSON,
				CreatedAt:    time.Now(),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
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
