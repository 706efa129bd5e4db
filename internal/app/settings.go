package app

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/kopihub/kopihub/internal/domain"
)

// GetSettingsStringValue reads a system setting, returning "" when unset.
func (a *Application) GetSettingsStringValue(category, key string) string {
	var value string
	err := a.gormDB.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, key).
		Pluck("value", &value).Error
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return cast.ToInt64(a.GetSettingsStringValue(category, key))
}

func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return cast.ToBool(a.GetSettingsStringValue(category, key))
}

// SaveSettings upserts settings keyed as "category.name".
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	for skey, svalue := range settings {
		parts := strings.SplitN(skey, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("skip invalid settings key", zap.String("key", skey))
			continue
		}
		category, name := parts[0], parts[1]
		value := cast.ToString(svalue)

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)
		if count == 0 {
			err := a.gormDB.Create(&domain.SysConfig{
				Type:      category,
				Name:      name,
				Value:     value,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}).Error
			if err != nil {
				return err
			}
			continue
		}
		err := a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
