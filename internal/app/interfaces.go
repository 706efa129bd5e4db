package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/kopihub/kopihub/config"
	"github.com/kopihub/kopihub/internal/order"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// OrderProvider provides checkout and payment reconciliation services
type OrderProvider interface {
	Orders() *order.Service
	Reconciler() *order.Reconciler
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	OrderProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// SendWelcomeMail queues a registration mail asynchronously
	SendWelcomeMail(to string)
}
