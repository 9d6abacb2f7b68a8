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

func newPromotionUsecase(promotions repo.PromotionRepository, audit repo.AuditLogRepository) *usecase.PromotionUsecase {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	return usecase.NewPromotionUsecase(promotions, audit, func() time.Time { return now })
}

func TestPromotionCreateNormalizesCode(t *testing.T) {
	promotions := &PromotionRepoMock{}
	audit := &AuditLogRepoMock{}
	uc := newPromotionUsecase(promotions, audit)

	promotions.On("Create", mock.Anything, mock.MatchedBy(func(p model.Promotion) bool {
		return p.Title == "Semana da Pizza" &&
			p.DiscountType == model.DiscountTypePercentage &&
			p.DiscountValue.Equal(price("10.00")) &&
			p.Code != nil && *p.Code == "PIZZA10"
	})).Return(model.Promotion{
		ID:            1,
		Title:         "Semana da Pizza",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: price("10.00"),
		StartDate:     time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Active:        true,
	}, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Create(context.Background(), 7, usecase.PromotionInput{
		Title:         "Semana da Pizza",
		DiscountType:  "percentage",
		DiscountValue: "10.00",
		StartDate:     "2026-08-10",
		EndDate:       "2026-08-20",
		Active:        true,

		//小文字・前後空白は正規化される
		Code: " pizza10 ",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	//保存フラグON かつ 期間内なので表示上も有効
	assert.True(t, out.Active)
	assert.True(t, out.CurrentlyActive)
	promotions.AssertExpectations(t)
}

func TestPromotionCreateValidation(t *testing.T) {
	uc := newPromotionUsecase(&PromotionRepoMock{}, &AuditLogRepoMock{})

	cases := []usecase.PromotionInput{
		{Title: "", DiscountType: "percentage", DiscountValue: "10", StartDate: "2026-08-10", EndDate: "2026-08-20"},
		{Title: "x", DiscountType: "bogus", DiscountValue: "10", StartDate: "2026-08-10", EndDate: "2026-08-20"},
		{Title: "x", DiscountType: "fixed", DiscountValue: "ten", StartDate: "2026-08-10", EndDate: "2026-08-20"},
		{Title: "x", DiscountType: "fixed", DiscountValue: "10", StartDate: "10/08/2026", EndDate: "2026-08-20"},
	}

	for i, in := range cases {
		_, err := uc.Create(context.Background(), 7, in)
		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok, i)
		assert.Equal(t, 400, he.Status, i)
	}
}

// フラグONでも期間外なら表示上は無効
func TestPromotionCurrentlyActiveRespectsWindow(t *testing.T) {
	promotions := &PromotionRepoMock{}
	uc := newPromotionUsecase(promotions, &AuditLogRepoMock{})

	promotions.On("List", mock.Anything).Return([]model.Promotion{
		{
			ID: 1, Title: "expirada",
			DiscountType: model.DiscountTypeFixed, DiscountValue: price("5.00"),
			StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
			Active:    true,
		},
	}, nil)

	out, err := uc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.True(t, out[0].Active)
	assert.False(t, out[0].CurrentlyActive)
}

func TestPromotionSetActiveNotFound(t *testing.T) {
	promotions := &PromotionRepoMock{}
	uc := newPromotionUsecase(promotions, &AuditLogRepoMock{})

	promotions.On("SetActive", mock.Anything, int64(99), true).Return(repo.ErrNotFound)

	err := uc.SetActive(context.Background(), 7, 99, true)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

// 監査ログの失敗は管理操作を失敗させない
func TestPromotionDeleteIgnoresAuditFailure(t *testing.T) {
	promotions := &PromotionRepoMock{}
	audit := &AuditLogRepoMock{}
	uc := newPromotionUsecase(promotions, audit)

	promotions.On("Delete", mock.Anything, int64(1)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NoError(t, uc.Delete(context.Background(), 7, 1))
}
