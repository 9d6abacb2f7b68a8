package repository

import (
	"context"

	"app/internal/domain/model"
)

// プロモーションの永続化（保存・取得）だけを約束。
type PromotionRepository interface {
	List(ctx context.Context) ([]model.Promotion, error)
	FindByID(ctx context.Context, id int64) (model.Promotion, error)
	Create(ctx context.Context, p model.Promotion) (model.Promotion, error)
	Update(ctx context.Context, p model.Promotion) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
}
