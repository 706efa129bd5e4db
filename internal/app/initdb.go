package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kopihub/kopihub/config"
	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/order"
	"github.com/kopihub/kopihub/pkg/common"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=Asia/Jakarta",
		cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port)
	pgdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		zap.S().Panicf("failed to connect database: %v", err)
	}
	sqldb, err := pgdb.DB()
	if err != nil {
		zap.S().Panicf("failed to obtain sql db: %v", err)
	}
	sqldb.SetMaxOpenConns(cfg.MaxConn)
	sqldb.SetMaxIdleConns(cfg.IdleConn)
	sqldb.SetConnMaxLifetime(time.Hour)
	return pgdb
}

// checkSuper ensures a usable administrator account always exists.
func (a *Application) checkSuper() {
	const superEmail = "admin@gmail.com"
	const defaultPassword = "kopihub"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var admin domain.User
	err = a.gormDB.Where("email = ?", superEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = domain.User{
			ID:        common.UUIDint64(),
			Email:     superEmail,
			Password:  string(hashed),
			Role:      "admin",
			LastLogin: time.Now(),
		}
		if err := a.gormDB.Create(&admin).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
			return
		}
		if err := a.gormDB.Create(&domain.Profile{
			ID:       common.UUIDint64(),
			UserId:   admin.ID,
			FullName: "Administrator",
		}).Error; err != nil {
			zap.L().Error("failed to create default admin profile", zap.Error(err))
		}
		zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	if admin.Role == "admin" {
		return
	}
	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).
		Updates(map[string]interface{}{"role": "admin", "updated_at": time.Now()}).Error; err != nil {
		zap.L().Error("failed to repair default admin role", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin role", zap.String("email", superEmail))
}

type configSchema struct {
	Key         string
	Default     string
	Description string
}

var defaultConfigSchemas = []configSchema{
	{Key: "checkout.tax_percent", Default: "5", Description: "Tax percentage applied to order subtotals"},
	{Key: "checkout.stale_order_hours", Default: "24", Description: "Hours after which unpaid gateway orders are canceled"},
	{Key: "catalog.default_page_size", Default: "6", Description: "Default page size for product listings"},
	{Key: "mail.welcome_enable", Default: "true", Description: "Send a welcome mail on registration"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range defaultConfigSchemas {
		category, name, ok := splitConfigKey(schema.Key)
		if !ok {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

func splitConfigKey(key string) (category, name string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], i > 0 && i < len(key)-1
		}
	}
	return "", "", false
}

// checkReferenceData seeds the lookup tables the checkout flow depends on.
// Status and size rows keep fixed ids because orders reference them by id.
func (a *Application) checkReferenceData() {
	statuses := []domain.OrderStatus{
		{ID: int64(order.StatusPending), Status: "Pending"},
		{ID: int64(order.StatusCanceled), Status: "Canceled"},
		{ID: int64(order.StatusSettled), Status: "Settled"},
	}
	for _, s := range statuses {
		var count int64
		a.gormDB.Model(&domain.OrderStatus{}).Where("id = ?", s.ID).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&s).Error; err != nil {
				zap.L().Error("failed to seed order status", zap.String("status", s.Status), zap.Error(err))
			} else {
				zap.L().Info("initialized order status", zap.String("status", s.Status))
			}
		}
	}

	payments := []string{order.PaymentMethodCash, order.PaymentMethodGateway}
	for _, name := range payments {
		var count int64
		a.gormDB.Model(&domain.PaymentMethod{}).Where("payment_method = ?", name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&domain.PaymentMethod{
				ID:            common.UUIDint64(),
				PaymentMethod: name,
			}).Error; err != nil {
				zap.L().Error("failed to seed payment method", zap.String("name", name), zap.Error(err))
			}
		}
	}

	shippings := []domain.ShippingMethod{
		{ShippingMethod: "Dine In", Cost: 0},
		{ShippingMethod: "Pickup", Cost: 0},
		{ShippingMethod: "Home Delivery", Cost: 0},
	}
	for _, s := range shippings {
		var count int64
		a.gormDB.Model(&domain.ShippingMethod{}).Where("shipping_method = ?", s.ShippingMethod).Count(&count)
		if count == 0 {
			s.ID = common.UUIDint64()
			if err := a.gormDB.Create(&s).Error; err != nil {
				zap.L().Error("failed to seed shipping method", zap.String("name", s.ShippingMethod), zap.Error(err))
			}
		}
	}

	sizes := []domain.ProductSize{
		{ID: 1, Size: "Regular", Surcharge: 0},
		{ID: 2, Size: "Large", Surcharge: 5000},
		{ID: 3, Size: "Extra Large", Surcharge: 5000},
	}
	for _, s := range sizes {
		var count int64
		a.gormDB.Model(&domain.ProductSize{}).Where("id = ?", s.ID).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&s).Error; err != nil {
				zap.L().Error("failed to seed product size", zap.String("size", s.Size), zap.Error(err))
			}
		}
	}

	options := []string{"Hot", "Cold", "Dine In", "Take Away"}
	for _, name := range options {
		var count int64
		a.gormDB.Model(&domain.FdOption{}).Where("option = ?", name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&domain.FdOption{
				ID:     common.UUIDint64(),
				Option: name,
			}).Error; err != nil {
				zap.L().Error("failed to seed option", zap.String("name", name), zap.Error(err))
			}
		}
	}
}
