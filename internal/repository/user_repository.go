package repository

import (
	"context"

	"app/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)

	//注文に紐づく顧客名をまとめて引く（管理画面・レポート用）
	FindNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// 管理者ロール（permission map付き）
type AdminRoleRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.AdminRole, error)
	Upsert(ctx context.Context, role model.AdminRole) error
}
