package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// PromotionUsecase は割引ルールのCRUD。
// 業務ルールの強制はこの層だけ（DB制約は持たない）。
type PromotionUsecase struct {
	promotions repo.PromotionRepository
	auditRepo  repo.AuditLogRepository
	now        func() time.Time
}

func NewPromotionUsecase(promotions repo.PromotionRepository, auditRepo repo.AuditLogRepository, now func() time.Time) *PromotionUsecase {
	return &PromotionUsecase{promotions: promotions, auditRepo: auditRepo, now: now}
}

type PromotionInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	MinOrderValue string `json:"min_order_value"`

	//日付は YYYY-MM-DD
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Active bool `json:"active"`

	//空文字はNULL（無制限）として保存する
	UsageLimit *int64 `json:"usage_limit"`

	//空文字はNULL。保存時に大文字化する。
	Code string `json:"code"`
}

type PromotionOutput struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	MinOrderValue string `json:"min_order_value"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`

	//保存されているフラグ
	Active bool `json:"active"`

	//フラグON かつ 今が期間内（表示用の計算値）
	CurrentlyActive bool `json:"currently_active"`

	UsageLimit *int64  `json:"usage_limit"`
	UsageCount int64   `json:"usage_count"`
	Code       *string `json:"code"`
}

const promotionDateLayout = "2006-01-02"

func (u *PromotionUsecase) List(ctx context.Context) ([]PromotionOutput, error) {
	items, err := u.promotions.List(ctx)
	if err != nil {
		return []PromotionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.now()
	out := make([]PromotionOutput, 0, len(items))
	for i := range items {
		out = append(out, u.toOutput(&items[i], now))
	}
	return out, nil
}

func (u *PromotionUsecase) Create(ctx context.Context, actorAdminUserID int64, in PromotionInput) (PromotionOutput, error) {
	p, err := u.parseInput(in)
	if err != nil {
		return PromotionOutput{}, err
	}

	created, err := u.promotions.Create(ctx, p)
	if err != nil {
		return PromotionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorAdminUserID, created.ID, "", `{"op":"create"}`)

	return u.toOutput(&created, u.now()), nil
}

func (u *PromotionUsecase) Update(ctx context.Context, actorAdminUserID int64, id int64, in PromotionInput) (PromotionOutput, error) {
	if id <= 0 {
		return PromotionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.parseInput(in)
	if err != nil {
		return PromotionOutput{}, err
	}
	p.ID = id
	p.UpdatedAt = u.now()

	if err := u.promotions.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return PromotionOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return PromotionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.promotions.FindByID(ctx, id)
	if err != nil {
		return PromotionOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorAdminUserID, id, "", `{"op":"update"}`)

	return u.toOutput(&updated, u.now()), nil
}

func (u *PromotionUsecase) Delete(ctx context.Context, actorAdminUserID int64, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.promotions.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorAdminUserID, id, "", `{"op":"delete"}`)
	return nil
}

// SetActive は保存フラグだけを切り替える（期間判定とは独立）
func (u *PromotionUsecase) SetActive(ctx context.Context, actorAdminUserID int64, id int64, active bool) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.promotions.SetActive(ctx, id, active); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actorAdminUserID, id, "", `{"op":"toggle_active"}`)
	return nil
}

func (u *PromotionUsecase) parseInput(in PromotionInput) (model.Promotion, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "title required")
	}

	discountType, ok := model.ParseDiscountType(in.DiscountType)
	if !ok {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "invalid discount_type")
	}

	discountValue, err := decimal.NewFromString(in.DiscountValue)
	if err != nil {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "invalid discount_value")
	}

	minOrderValue := decimal.Zero
	if strings.TrimSpace(in.MinOrderValue) != "" {
		minOrderValue, err = decimal.NewFromString(in.MinOrderValue)
		if err != nil {
			return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "invalid min_order_value")
		}
	}

	start, err := time.Parse(promotionDateLayout, in.StartDate)
	if err != nil {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "invalid start_date")
	}
	end, err := time.Parse(promotionDateLayout, in.EndDate)
	if err != nil {
		return model.Promotion{}, NewHTTPError(http.StatusBadRequest, "invalid end_date")
	}

	p := model.Promotion{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		MinOrderValue: minOrderValue,
		StartDate:     start,
		EndDate:       end,
		Active:        in.Active,
		UsageLimit:    in.UsageLimit,
	}

	//コードは大文字で保存、空はNULL
	if code := strings.ToUpper(strings.TrimSpace(in.Code)); code != "" {
		p.Code = &code
	}

	return p, nil
}

func (u *PromotionUsecase) toOutput(p *model.Promotion, now time.Time) PromotionOutput {
	return PromotionOutput{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DiscountType:    string(p.DiscountType),
		DiscountValue:   p.DiscountValue.StringFixed(2),
		MinOrderValue:   p.MinOrderValue.StringFixed(2),
		StartDate:       p.StartDate.Format(promotionDateLayout),
		EndDate:         p.EndDate.Format(promotionDateLayout),
		Active:          p.Active,
		CurrentlyActive: p.IsCurrentlyActive(now),
		UsageLimit:      p.UsageLimit,
		UsageCount:      p.UsageCount,
		Code:            p.Code,
	}
}

// 失敗しても本処理は止めない（ログ側の都合で管理操作を失敗させない）
func (u *PromotionUsecase) audit(ctx context.Context, actorID int64, promotionID int64, beforeJSON, afterJSON string) {
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       model.AuditActionWritePromotion,
		ResourceType: model.AuditResourcePromotion,
		ResourceID:   promotionID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    u.now(),
	})
}
