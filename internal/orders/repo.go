package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds the orders repository to the given connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("User").Create(order).Error
}

// ListWithUsers LEFT JOINs users so orders whose user was deleted (or guest orders)
// still appear with a nil User.
func (r *repository) ListWithUsers(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Joins("User").
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Joins("User").First(&order, "orders.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
