package users

import (
	"context"
	"fmt"

	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
)

// Service is the admin surface over user accounts.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	SetRole(ctx context.Context, id uint64, role string) error
	Delete(ctx context.Context, id uint64) error
}

type repository interface {
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uint64, role enums.UserRole) (bool, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// SetRole stores role as given. Values outside user/admin are accepted and simply
// never pass an admin check.
func (s *service) SetRole(ctx context.Context, id uint64, role string) error {
	if id == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid user id")
	}
	if role == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "role is required")
	}
	found, err := s.repo.UpdateRole(ctx, id, enums.UserRole(role))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update role")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete user")
	}
	return nil
}
