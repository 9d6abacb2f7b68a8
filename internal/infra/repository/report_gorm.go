package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

func (r *ReportGormRepository) DeliveredOrdersSince(ctx context.Context, since time.Time) ([]repo.DeliveredOrderRow, error) {
	return r.deliveredOrders(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("orders.created_at >= ?", since)
	})
}

func (r *ReportGormRepository) DeliveredOrdersBetween(ctx context.Context, from, to time.Time) ([]repo.DeliveredOrderRow, error) {
	return r.deliveredOrders(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("orders.created_at >= ? AND orders.created_at < ?", from, to)
	})
}

func (r *ReportGormRepository) deliveredOrders(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]repo.DeliveredOrderRow, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("orders.id as order_id",
			"orders.user_id",
			"users.full_name as customer_name",
			"users.phone",
			"orders.total_amount",
			"orders.created_at").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.order_status = ?", model.OrderStatusDelivered)

	var rows []repo.DeliveredOrderRow
	if err := scope(q).Order("orders.created_at asc").Scan(&rows).Error; err != nil {
		return []repo.DeliveredOrderRow{}, err
	}
	return rows, nil
}

func (r *ReportGormRepository) DeliveredItemsSince(ctx context.Context, since time.Time) ([]repo.DeliveredItemRow, error) {
	q := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("order_items.product_id",
			"products.name as product_name",
			"products.image_url",
			"order_items.quantity",
			"order_items.unit_price").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.order_status = ?", model.OrderStatusDelivered).
		Where("orders.created_at >= ?", since)

	var rows []repo.DeliveredItemRow
	if err := q.Scan(&rows).Error; err != nil {
		return []repo.DeliveredItemRow{}, err
	}
	return rows, nil
}
