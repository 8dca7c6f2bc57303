package models

import "time"

// SiteConfig is a single key/value setting such as the storefront banner.
type SiteConfig struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the singular table name.
func (SiteConfig) TableName() string {
	return "site_config"
}
