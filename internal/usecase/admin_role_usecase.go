package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AdminRoleUsecase は管理者ロールの付与・更新。
type AdminRoleUsecase struct {
	users repo.UserRepository
	roles repo.AdminRoleRepository
	now   func() time.Time
}

func NewAdminRoleUsecase(users repo.UserRepository, roles repo.AdminRoleRepository, now func() time.Time) *AdminRoleUsecase {
	return &AdminRoleUsecase{users: users, roles: roles, now: now}
}

type GrantRoleInput struct {
	UserID      int64  `json:"user_id"`
	RoleName    string `json:"role_name"`
	Permissions string `json:"permissions"`
}

type AdminRoleOutput struct {
	UserID      int64  `json:"user_id"`
	RoleName    string `json:"role_name"`
	Permissions string `json:"permissions"`
}

// Grant は対象ユーザーにロール行を作成・上書きする。
// users.role が ADMIN でないユーザーには付与できない（ガードの前提条件）。
func (u *AdminRoleUsecase) Grant(ctx context.Context, in GrantRoleInput) (AdminRoleOutput, error) {
	if in.UserID <= 0 {
		return AdminRoleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	if in.RoleName == "" {
		return AdminRoleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid role_name")
	}
	if in.Permissions != "" && !json.Valid([]byte(in.Permissions)) {
		return AdminRoleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid permissions")
	}

	user, err := u.users.FindByID(ctx, in.UserID)
	if err == repo.ErrNotFound {
		return AdminRoleOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return AdminRoleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user.Role != model.RoleAdmin {
		return AdminRoleOutput{}, NewHTTPError(http.StatusBadRequest, "user is not admin")
	}

	if err := u.roles.Upsert(ctx, model.AdminRole{
		UserID:      in.UserID,
		RoleName:    in.RoleName,
		Permissions: in.Permissions,
		CreatedAt:   u.now(),
	}); err != nil {
		return AdminRoleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AdminRoleOutput{
		UserID:      in.UserID,
		RoleName:    in.RoleName,
		Permissions: in.Permissions,
	}, nil
}
