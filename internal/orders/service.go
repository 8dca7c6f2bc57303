package orders

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
)

// Service is the read side of orders used by the admin listing.
type Service interface {
	ListOrders(ctx context.Context) ([]OrderDTO, error)
}

type service struct {
	repo Repository
	loc  *time.Location
}

// NewService builds the orders service. A nil location renders times in time.Local.
func NewService(repo Repository, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &service{repo: repo, loc: loc}, nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.ListWithUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], s.loc))
	}
	return out, nil
}
