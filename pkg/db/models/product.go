package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog listing.
type Product struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Code        string          `gorm:"column:code;not null;uniqueIndex"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Image       string          `gorm:"column:image;not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
