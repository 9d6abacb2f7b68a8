package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type AddressCreateInput struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

type AddressOutput struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	IsDefault    bool   `json:"is_default"`
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]AddressOutput, 0, len(list))
	for i := range list {
		out = append(out, toAddressOutput(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressCreateInput) (AddressOutput, error) {
	if userID <= 0 {
		return AddressOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//入力チェック
	if strings.TrimSpace(in.Street) == "" ||
		strings.TrimSpace(in.Number) == "" ||
		strings.TrimSpace(in.Neighborhood) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.State) == "" ||
		strings.TrimSpace(in.ZipCode) == "" {
		return AddressOutput{}, NewHTTPError(http.StatusBadRequest, "missing required fields")
	}

	count, err := u.addresses.CountByUserID(ctx, userID)
	if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	a := model.Address{
		UserID:       userID,
		Street:       in.Street,
		Number:       in.Number,
		Complement:   in.Complement,
		Neighborhood: in.Neighborhood,
		City:         in.City,
		State:        in.State,
		ZipCode:      in.ZipCode,

		//最初の1件は必ずデフォルトになる
		IsDefault: count == 0,
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toAddressOutput(&created), nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toAddressOutput(a *model.Address) AddressOutput {
	return AddressOutput{
		ID:           a.ID,
		UserID:       a.UserID,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		IsDefault:    a.IsDefault,
	}
}
