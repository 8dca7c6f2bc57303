package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

type stubCheckoutService struct {
	inputs []checkout.Input
	err    error
}

func (s *stubCheckoutService) Execute(_ context.Context, input checkout.Input) (*checkout.Result, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return nil, s.err
	}
	return &checkout.Result{OrderID: "pref-1", PreferenceID: "pref-1", RedirectURL: "https://pay.example/pref-1", Message: "Pedido realizado com sucesso!"}, nil
}

func TestCheckoutPassesItemsAndBodyToken(t *testing.T) {
	svc := &stubCheckoutService{}
	body := `{"itens":[{"name":"Scooter X13 Pro","price":4500}],"total":4500,"token":"body-token"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()

	Checkout(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"redirect_url":"https://pay.example/pref-1"`)
	require.Len(t, svc.inputs, 1)
	input := svc.inputs[0]
	assert.Equal(t, "body-token", input.Token)
	require.Len(t, input.Items, 1)
	assert.Equal(t, 1, input.Items[0].Quantity)
	require.NotNil(t, input.Total)
	assert.True(t, input.Total.Equal(decimal.NewFromInt(4500)))
}

func TestCheckoutFallsBackToBearer(t *testing.T) {
	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"items":[{"name":"X","unit_price":1,"quantity":2}]}`))
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()

	Checkout(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.inputs, 1)
	assert.Equal(t, "header-token", svc.inputs[0].Token)
	assert.Nil(t, svc.inputs[0].Total)
}

func TestCheckoutProviderFailure(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.Wrap(pkgerrors.CodePaymentProvider, context.DeadlineExceeded, "create payment preference")}
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"items":[{"name":"X","price":1}]}`))
	rec := httptest.NewRecorder()

	Checkout(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, string(pkgerrors.CodePaymentProvider), decodeEnvelope(t, rec).Error.Code)
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"items":`))
	rec := httptest.NewRecorder()

	Checkout(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.inputs)
}
