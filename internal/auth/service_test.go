package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/internal/users"
	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/migrate/migratetest"
	"github.com/angelmondragon/scootershop-backend/pkg/security"
)

type testEnv struct {
	svc      Service
	sessions *session.Manager
	repo     *users.Repository
}

func buildTestService(t *testing.T) testEnv {
	t.Helper()
	client := migratetest.NewSQLite(t)
	repo := users.NewRepository(client.DB())
	manager, err := session.NewManager(session.NewRepository(client.DB()), config.SessionConfig{TTL: time.Hour, MaxPerUser: 10})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: manager,
		PasswordConfig: config.PasswordConfig{BcryptCost: 4},
	})
	require.NoError(t, err)
	return testEnv{svc: svc, sessions: manager, repo: repo}
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()

	resp, err := env.svc.Register(ctx, RegisterRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "segredo123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Code)
	require.Regexp(t, `^USR-[A-Z0-9]{6}$`, resp.Code)
	require.Equal(t, enums.UserRoleUser, resp.Role)
	require.Equal(t, "Ana", resp.Name)

	stored, err := env.repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "segredo123", stored.PasswordHash)
	ok, err := security.VerifyPassword("segredo123", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	principal, err := env.sessions.Resolve(ctx, resp.Token)
	require.NoError(t, err)
	require.NotNil(t, principal)
	require.Equal(t, stored.ID, principal.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, RegisterRequest{Name: "Outra Ana", Email: "ANA@example.com", Password: "y"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicateEmail), "got %v", err)

	list, err := env.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRegisterRetriesOnCodeCollision(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()

	first, err := env.svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	codes := []string{first.Code, "USR-NEW001"}
	svc := env.svc.(*service)
	svc.newCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	second, err := env.svc.Register(ctx, RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "y"})
	require.NoError(t, err)
	require.Equal(t, "USR-NEW001", second.Code)
	require.Empty(t, codes)

	list, err := env.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestRegisterGivesUpAfterRepeatedCodeCollisions(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()

	first, err := env.svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	calls := 0
	env.svc.(*service).newCode = func() (string, error) {
		calls++
		return first.Code, nil
	}

	_, err = env.svc.Register(ctx, RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "y"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStorage), "got %v", err)
	require.Equal(t, codeAttempts, calls)
}

func TestRegisterValidation(t *testing.T) {
	env := buildTestService(t)
	_, err := env.svc.Register(context.Background(), RegisterRequest{Name: " ", Email: "a@b.com", Password: "x"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestLoginIssuesTokenOnlyForCorrectPassword(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()

	registered, err := env.svc.Register(ctx, RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "certa"})
	require.NoError(t, err)

	resp, err := env.svc.Login(ctx, LoginRequest{Email: "bia@example.com", Password: "certa"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEqual(t, registered.Token, resp.Token)
	require.Equal(t, registered.Code, resp.Code)

	// prior sessions stay valid
	prior, err := env.sessions.Resolve(ctx, registered.Token)
	require.NoError(t, err)
	require.NotNil(t, prior)

	wrong, err := env.svc.Login(ctx, LoginRequest{Email: "bia@example.com", Password: "errada"})
	require.Nil(t, wrong)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidCredentials))

	_, err = env.svc.Login(ctx, LoginRequest{Email: "ninguem@example.com", Password: "certa"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidCredentials))
}

func TestLoginWithCorruptHashIsInvalidCredentials(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()
	_, err := env.repo.Create(ctx, users.CreateUserDTO{Code: "USR-CCCCCC", Name: "Caio", Email: "caio@example.com", PasswordHash: "plain"})
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, LoginRequest{Email: "caio@example.com", Password: "plain"})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidCredentials))
}

func TestLogoutRevokesSession(t *testing.T) {
	env := buildTestService(t)
	ctx := context.Background()

	resp, err := env.svc.Register(ctx, RegisterRequest{Name: "Duda", Email: "duda@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, resp.Token))
	principal, err := env.sessions.Resolve(ctx, resp.Token)
	require.NoError(t, err)
	require.Nil(t, principal)

	require.NoError(t, env.svc.Logout(ctx, "unknown-token"))
	require.True(t, pkgerrors.Is(env.svc.Logout(ctx, ""), pkgerrors.CodeUnauthorized))
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{UserRepo: &users.Repository{}})
	require.Error(t, err)
}

