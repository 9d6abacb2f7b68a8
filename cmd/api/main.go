package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infrarepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := conn.AutoMigrate(
		&model.User{},
		&model.AdminRole{},
		&model.Address{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Promotion{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	//repository
	txManager := infrarepo.NewTxManagerGorm(conn)
	userRepo := infrarepo.NewUserGormRepository(conn)
	adminRoleRepo := infrarepo.NewAdminRoleGormRepository(conn)
	addressRepo := infrarepo.NewAddressGormRepository(conn)
	catalogRepo := infrarepo.NewCatalogGormRepository(conn)
	promotionRepo := infrarepo.NewPromotionGormRepository(conn)
	auditRepo := infrarepo.NewAuditLogGormRepository(conn)
	reportRepo := infrarepo.NewReportGormRepository(conn)

	//usecase
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret, bcrypt.DefaultCost, time.Now)
	catalogUC := usecase.NewCatalogUsecase(catalogRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager, 2*time.Second)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, userRepo, auditRepo)
	adminRoleUC := usecase.NewAdminRoleUsecase(userRepo, adminRoleRepo, time.Now)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)
	promotionUC := usecase.NewPromotionUsecase(promotionRepo, auditRepo, time.Now)
	reportUC := usecase.NewReportUsecase(reportRepo, time.Now)

	//handler
	handlers := server.Handlers{
		Auth:           handler.NewAuthHandler(authUC),
		Catalog:        handler.NewCatalogHandler(catalogUC),
		Address:        handler.NewAddressHandler(addressUC),
		Order:          handler.NewOrderHandler(orderUC, checkoutUC),
		AdminOrder:     handler.NewAdminOrderHandler(adminOrderUC),
		AdminPromotion: handler.NewAdminPromotionHandler(promotionUC),
		AdminReport:    handler.NewAdminReportHandler(reportUC),
		AdminRole:      handler.NewAdminRoleHandler(adminRoleUC),
		AdminAudit:     handler.NewAdminAuditHandler(auditUC),
	}

	e := server.New(cfg, logger, handlers, adminRoleRepo)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
