// Package mercadopago opens hosted checkouts through Mercado Pago preferences.
package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/payments"
)

const (
	providerName = "mercadopago"
	autoReturn   = "approved"
)

var errAccessTokenRequired = errors.New("mercado pago access token is required")

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

// Client implements payments.Provider on top of the Mercado Pago SDK.
type Client struct {
	preferences preferenceCreator
	sandbox     bool
	logg        *logger.Logger
}

// NewClient validates the access token and builds the SDK preference client.
func NewClient(ctx context.Context, cfg config.PaymentsConfig, logg *logger.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.MercadoPagoAccessToken)
	if token == "" {
		return nil, errAccessTokenRequired
	}
	sdkCfg, err := mpconfig.New(token)
	if err != nil {
		return nil, fmt.Errorf("mercado pago config: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "sandbox", cfg.Sandbox), "mercado pago client initialized")
	}
	return &Client{
		preferences: preference.NewClient(sdkCfg),
		sandbox:     cfg.Sandbox,
		logg:        logg,
	}, nil
}

func (c *Client) Name() string { return providerName }

// CreatePaymentPreference registers the cart and returns the init point the buyer is sent to.
func (c *Client) CreatePaymentPreference(ctx context.Context, cart payments.Cart) (*payments.Preference, error) {
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.preferences.Create(ctx, buildRequest(cart))
	if err != nil {
		return nil, fmt.Errorf("create mercado pago preference: %w", err)
	}
	if resp == nil {
		return nil, payments.ErrMissingRedirect
	}
	redirect := resp.InitPoint
	if c.sandbox && resp.SandboxInitPoint != "" {
		redirect = resp.SandboxInitPoint
	}
	if redirect == "" {
		return nil, payments.ErrMissingRedirect
	}
	return &payments.Preference{ID: resp.ID, RedirectURL: redirect}, nil
}

func buildRequest(cart payments.Cart) preference.Request {
	items := make([]preference.ItemRequest, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, preference.ItemRequest{
			Title:      item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			CurrencyID: cart.Currency,
		})
	}
	req := preference.Request{
		Items:             items,
		ExternalReference: cart.Reference,
	}
	if cart.BackURLs.Success != "" || cart.BackURLs.Failure != "" || cart.BackURLs.Pending != "" {
		req.BackURLs = &preference.BackURLsRequest{
			Success: cart.BackURLs.Success,
			Failure: cart.BackURLs.Failure,
			Pending: cart.BackURLs.Pending,
		}
		// auto_return is rejected by the API without a success URL.
		if cart.BackURLs.Success != "" {
			req.AutoReturn = autoReturn
		}
	}
	return req
}
