package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/internal/orders"
	"github.com/angelmondragon/scootershop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	rec := httptest.NewRecorder()

	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get(envHeader))
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, logger.Nop(), ReadinessCheck{Name: "db", Pinger: ok}, ReadinessCheck{Name: "redis"}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("db down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(cfg, logger.Nop(), ReadinessCheck{Name: "db", Pinger: down}).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, string(pkgerrors.CodeDependency), env.Error.Code)
		assert.Equal(t, "connection refused", env.Error.Details["db"])
	})
}

type stubOrdersService struct {
	list []orders.OrderDTO
	err  error
}

func (s stubOrdersService) ListOrders(context.Context) ([]orders.OrderDTO, error) {
	return s.list, s.err
}

func TestOrdersList(t *testing.T) {
	t.Run("empty list is an array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OrdersList(stubOrdersService{list: []orders.OrderDTO{}}, logger.Nop()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pedidos", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
	})

	t.Run("storage failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		OrdersList(stubOrdersService{err: pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("disk full"), "list orders")}, logger.Nop()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pedidos", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk full")
	})
}
