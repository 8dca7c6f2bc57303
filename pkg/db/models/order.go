package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scootershop-backend/pkg/enums"
)

// OrderItem is one cart line captured at checkout time.
type OrderItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order is a checkout that was accepted by the payment provider.
type Order struct {
	ID        string            `gorm:"column:id;primaryKey"`
	UserID    *uint64           `gorm:"column:user_id;index"`
	User      *User             `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Items     []OrderItem       `gorm:"column:items;not null;serializer:json"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Status    enums.OrderStatus `gorm:"column:status;not null"`
	Provider  string            `gorm:"column:provider;not null;default:''"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
