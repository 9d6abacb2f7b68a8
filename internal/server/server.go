package server

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/handler"
	appmw "app/internal/middleware"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth           *handler.AuthHandler
	Catalog        *handler.CatalogHandler
	Address        *handler.AddressHandler
	Order          *handler.OrderHandler
	AdminOrder     *handler.AdminOrderHandler
	AdminPromotion *handler.AdminPromotionHandler
	AdminReport    *handler.AdminReportHandler
	AdminRole      *handler.AdminRoleHandler
	AdminAudit     *handler.AdminAuditHandler
}

// New はecho本体を組み立てて返す。
// /api      : 公開 + 要ログイン
// /api/admin: 要ログイン + ADMINロール
func New(cfg config.Config, logger *zap.Logger, h Handlers, adminRoles repository.AdminRoleRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(requestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	//認証なしで使えるAPI
	h.Auth.RegisterRoutes(api)
	h.Catalog.RegisterRoutes(api)

	//要ログイン
	authed := api.Group("", appmw.AuthJWT(cfg))
	h.Auth.RegisterAuthedRoutes(authed)
	h.Address.RegisterRoutes(authed)
	h.Order.RegisterRoutes(authed)

	//管理者のみ
	admin := api.Group("/admin", appmw.AuthJWT(cfg), appmw.AdminRoleGuard(adminRoles))
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminPromotion.RegisterRoutes(admin)
	h.AdminReport.RegisterRoutes(admin)
	h.AdminRole.RegisterRoutes(admin)
	h.AdminAudit.RegisterRoutes(admin)

	return e
}

// アクセスログ（zap）
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			logger.Info("request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			)

			return nil
		}
	}
}
