package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	"github.com/angelmondragon/scootershop-backend/pkg/codegen"
	"github.com/angelmondragon/scootershop-backend/pkg/db"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

const (
	createdMessage = "Produto adicionado!"

	codeAttempts = 3
)

// Service exposes catalog management operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductResult, error)
	DeleteProduct(ctx context.Context, id uint64) error
}

type productRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uint64) error
}

// ServiceParams bundles the catalog dependencies.
type ServiceParams struct {
	Repo    productRepository
	Uploads uploads.Saver
	Logger  *logger.Logger
}

type service struct {
	repo    productRepository
	uploads uploads.Saver
	logg    *logger.Logger
	newCode func() (string, error)
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Uploads == nil {
		return nil, fmt.Errorf("upload store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repo,
		uploads: params.Uploads,
		logg:    params.Logger,
		newCode: func() (string, error) { return codegen.New(codegen.PrefixProduct) },
	}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	image := strings.TrimSpace(input.ImagePath)
	if input.Upload != nil {
		path, err := s.uploads.Save(ctx, *input.Upload)
		if err != nil {
			return nil, err
		}
		image = path
	}

	product, err := s.insertWithCode(ctx, &models.Product{
		Name:        name,
		Price:       input.Price.Round(2),
		Description: strings.TrimSpace(input.Description),
		Image:       image,
	})
	if err != nil {
		if input.Upload != nil {
			if delErr := s.uploads.Delete(image); delErr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "image", image), "failed to remove orphaned upload")
			}
		}
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"product_code": product.Code, "product_id": product.ID})
	s.logg.Info(logCtx, "product created")
	return &CreateProductResult{Message: createdMessage, Code: product.Code, Product: FromModel(product)}, nil
}

// insertWithCode retries on the rare code collision.
func (s *service) insertWithCode(ctx context.Context, p *models.Product) (*models.Product, error) {
	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate product code")
		}
		p.ID = 0
		p.Code = code
		created, err := s.repo.Create(ctx, p)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err, "code") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create product")
		}
		lastErr = err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, lastErr, "create product")
}

// DeleteProduct is idempotent. The image file is left in place since other rows may
// reference the same path.
func (s *service) DeleteProduct(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete product")
	}
	return nil
}
