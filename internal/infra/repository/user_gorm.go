package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, repo.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserGormRepository) FindNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ID       int64
		FullName string
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("id", "full_name").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.ID] = row.FullName
	}
	return out, nil
}

type AdminRoleGormRepository struct {
	db *gorm.DB
}

func NewAdminRoleGormRepository(db *gorm.DB) *AdminRoleGormRepository {
	return &AdminRoleGormRepository{db: db}
}

func (r *AdminRoleGormRepository) FindByUserID(ctx context.Context, userID int64) (model.AdminRole, error) {
	var role model.AdminRole
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.AdminRole{}, repo.ErrNotFound
	}
	if err != nil {
		return model.AdminRole{}, err
	}
	return role, nil
}

func (r *AdminRoleGormRepository) Upsert(ctx context.Context, role model.AdminRole) error {
	var existing model.AdminRole
	err := r.db.WithContext(ctx).Where("user_id = ?", role.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&role).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&model.AdminRole{}).
		Where("user_id = ?", role.UserID).
		Updates(map[string]interface{}{
			"role_name":   role.RoleName,
			"permissions": role.Permissions,
		}).Error
}
