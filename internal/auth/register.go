package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/scootershop-backend/internal/users"
	"github.com/angelmondragon/scootershop-backend/pkg/codegen"
	"github.com/angelmondragon/scootershop-backend/pkg/db"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/security"
)

const (
	duplicateEmailMessage = "email already registered"

	codeAttempts = 3
)

// Register creates a user with the default role and signs them in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateEmail, duplicateEmailMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user, err := s.createWithCode(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         enums.UserRoleUser,
	})
	if err != nil {
		return nil, err
	}

	principal, err := s.session.Issue(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "issue session")
	}
	return &SessionResponse{
		Token: principal.Token,
		Name:  user.Name,
		Code:  user.Code,
		Role:  user.Role,
	}, nil
}

// createWithCode retries on the rare USR- code collision. A duplicate email from a
// concurrent registration is reported as DuplicateEmail.
func (s *service) createWithCode(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate user code")
		}
		dto.Code = code
		user, err := s.users.Create(ctx, dto)
		if err == nil {
			return user, nil
		}
		if db.IsUniqueViolation(err, "email") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateEmail, duplicateEmailMessage)
		}
		if !db.IsUniqueViolation(err, "code") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create user")
		}
		lastErr = err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, lastErr, "create user")
}

func newUserCode() (string, error) {
	return codegen.New(codegen.PrefixUser)
}
