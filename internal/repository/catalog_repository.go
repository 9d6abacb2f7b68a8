package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 楽観ロックの version 不一致
var ErrConflict = errors.New("conflict")

// カタログ（商品・カテゴリ）の読み取りだけを約束。
// 一覧は有効（is_active）なものだけ返す。
type CatalogRepository interface {
	ListActiveCategories(ctx context.Context) ([]model.Category, error)
	ListActiveProducts(ctx context.Context, categoryID *int64) ([]model.Product, error)
	FindProductByID(ctx context.Context, id int64) (model.Product, error)

	//商品ID群をまとめて引く（チェックアウト時の価格解決用）
	FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
}
