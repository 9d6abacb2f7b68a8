package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin/roles（管理者のみ）
type AdminRoleHandler struct {
	uc *usecase.AdminRoleUsecase
}

func NewAdminRoleHandler(uc *usecase.AdminRoleUsecase) *AdminRoleHandler {
	return &AdminRoleHandler{uc: uc}
}

func (h *AdminRoleHandler) RegisterRoutes(g *echo.Group) {
	g.PUT("/roles", h.grant)
}

func (h *AdminRoleHandler) grant(c echo.Context) error {
	var in usecase.GrantRoleInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Grant(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
