package orders

import (
	"context"

	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	ListWithUsers(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
}
