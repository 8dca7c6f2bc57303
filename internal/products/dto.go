package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID          uint64          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateProductRequest is the JSON body for POST /api/produtos.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Description string           `json:"description" validate:"max=2000"`
	Image       string           `json:"image" validate:"max=500"`
}

// CreateProductInput holds the validated payload to create a product. A non-nil
// Upload takes precedence over ImagePath.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	ImagePath   string
	Upload      *uploads.Upload
}

// CreateProductResult is returned after a product is stored.
type CreateProductResult struct {
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Product *ProductDTO `json:"product"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
}
