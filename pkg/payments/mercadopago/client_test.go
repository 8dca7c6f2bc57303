package mercadopago

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/payments"
)

type stubPreferences struct {
	got  preference.Request
	resp *preference.Response
	err  error
}

func (s *stubPreferences) Create(ctx context.Context, request preference.Request) (*preference.Response, error) {
	s.got = request
	return s.resp, s.err
}

func testCart() payments.Cart {
	return payments.Cart{
		Reference: "ref-1",
		Currency:  "BRL",
		Items: []payments.Item{
			{Name: "Scooter X13 Pro", UnitPrice: decimal.RequireFromString("4500.00"), Quantity: 1},
		},
		BackURLs: payments.BackURLs{Success: "http://localhost/sucesso.html", Failure: "http://localhost/falha.html"},
	}
}

func TestCreatePaymentPreferenceBuildsRequest(t *testing.T) {
	stub := &stubPreferences{resp: &preference.Response{ID: "pref-1", InitPoint: "https://mp/init", SandboxInitPoint: "https://mp/sandbox"}}
	client := &Client{preferences: stub}

	pref, err := client.CreatePaymentPreference(context.Background(), testCart())
	require.NoError(t, err)
	require.Equal(t, "pref-1", pref.ID)
	require.Equal(t, "https://mp/init", pref.RedirectURL)

	require.Len(t, stub.got.Items, 1)
	require.Equal(t, "Scooter X13 Pro", stub.got.Items[0].Title)
	require.Equal(t, 4500.0, stub.got.Items[0].UnitPrice)
	require.Equal(t, "BRL", stub.got.Items[0].CurrencyID)
	require.Equal(t, "ref-1", stub.got.ExternalReference)
	require.NotNil(t, stub.got.BackURLs)
	require.Equal(t, autoReturn, stub.got.AutoReturn)
}

func TestCreatePaymentPreferenceSandboxRedirect(t *testing.T) {
	stub := &stubPreferences{resp: &preference.Response{ID: "pref-2", InitPoint: "https://mp/init", SandboxInitPoint: "https://mp/sandbox"}}
	client := &Client{preferences: stub, sandbox: true}

	pref, err := client.CreatePaymentPreference(context.Background(), testCart())
	require.NoError(t, err)
	require.Equal(t, "https://mp/sandbox", pref.RedirectURL)
}

func TestCreatePaymentPreferenceErrors(t *testing.T) {
	client := &Client{preferences: &stubPreferences{err: errors.New("boom")}}
	_, err := client.CreatePaymentPreference(context.Background(), testCart())
	require.Error(t, err)

	client = &Client{preferences: &stubPreferences{resp: &preference.Response{ID: "x"}}}
	_, err = client.CreatePaymentPreference(context.Background(), testCart())
	require.ErrorIs(t, err, payments.ErrMissingRedirect)

	_, err = client.CreatePaymentPreference(context.Background(), payments.Cart{Reference: "r"})
	require.ErrorIs(t, err, payments.ErrEmptyCart)
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), config.PaymentsConfig{}, nil)
	require.ErrorIs(t, err, errAccessTokenRequired)
}
