package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CatalogUsecase は公開カタログ（カテゴリ・商品）の読み取り。
type CatalogUsecase struct {
	catalog repo.CatalogRepository
}

func NewCatalogUsecase(catalog repo.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

type ProductOutput struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

type CategoryOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]CategoryOutput, error) {
	cats, err := u.catalog.ListActiveCategories(ctx)
	if err != nil {
		return []CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CategoryOutput, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryOutput{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return out, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, categoryID *int64) ([]ProductOutput, error) {
	products, err := u.catalog.ListActiveProducts(ctx, categoryID)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductOutput, 0, len(products))
	for i := range products {
		out = append(out, toProductOutput(&products[i]))
	}
	return out, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.catalog.FindProductByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//非公開商品は存在しない扱い
	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return toProductOutput(&p), nil
}

func toProductOutput(p *model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
	}
}
