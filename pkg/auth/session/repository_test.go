package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/pkg/auth/session"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
	"github.com/angelmondragon/scootershop-backend/pkg/migrate/migratetest"
)

func TestRepositoryRoundTrip(t *testing.T) {
	client := migratetest.NewSQLite(t)
	conn := client.DB()
	ctx := context.Background()

	user := models.User{Code: "USR-AAAAAA", Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: enums.UserRoleAdmin}
	require.NoError(t, conn.Create(&user).Error)

	repo := session.NewRepository(conn)
	manager, err := session.NewManager(repo, config.SessionConfig{TTL: time.Hour, MaxPerUser: 2})
	require.NoError(t, err)

	first, err := manager.Issue(ctx, user.ID)
	require.NoError(t, err)

	got, err := manager.Resolve(ctx, first.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, user.ID, got.UserID)
	require.Equal(t, enums.UserRoleAdmin, got.Role)

	_, err = manager.Issue(ctx, user.ID)
	require.NoError(t, err)
	_, err = manager.Issue(ctx, user.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Equal(t, int64(2), count)

	require.NoError(t, manager.Revoke(ctx, "missing"))
}

func TestRepositoryExpiredAndCascade(t *testing.T) {
	client := migratetest.NewSQLite(t)
	conn := client.DB()
	ctx := context.Background()

	user := models.User{Code: "USR-BBBBBB", Name: "Bia", Email: "bia@example.com", PasswordHash: "x", Role: enums.UserRoleUser}
	require.NoError(t, conn.Create(&user).Error)

	repo := session.NewRepository(conn)
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &models.Session{Token: "old", UserID: user.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Session{Token: "live", UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	got, err := repo.FindActive(ctx, "old", now)
	require.NoError(t, err)
	require.Nil(t, got)

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	require.NoError(t, conn.Delete(&models.User{}, user.ID).Error)
	got, err = repo.FindActive(ctx, "live", now)
	require.NoError(t, err)
	require.Nil(t, got)

	var count int64
	require.NoError(t, conn.Model(&models.Session{}).Count(&count).Error)
	require.Zero(t, count)
}
