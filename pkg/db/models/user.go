package models

import (
	"time"

	"github.com/angelmondragon/scootershop-backend/pkg/enums"
)

// User represents a registered storefront account.
type User struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	Code         string         `gorm:"column:code;not null;uniqueIndex"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'user'"`
	Sessions     []Session      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
