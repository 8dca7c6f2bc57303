// Package midtrans opens hosted checkouts through Midtrans Snap transactions.
package midtrans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
	"github.com/angelmondragon/scootershop-backend/pkg/payments"
)

const providerName = "midtrans"

var errServerKeyRequired = errors.New("midtrans server key is required")

type snapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// Client implements payments.Provider on top of Midtrans Snap.
type Client struct {
	snap snapCreator
	logg *logger.Logger
}

// NewClient builds a Snap client for the sandbox or production environment.
func NewClient(ctx context.Context, cfg config.PaymentsConfig, logg *logger.Logger) (*Client, error) {
	key := strings.TrimSpace(cfg.MidtransServerKey)
	if key == "" {
		return nil, errServerKeyRequired
	}
	sandbox := cfg.MidtransSandbox()
	snapClient := snap.Client{}
	snapClient.New(key, environment(sandbox))
	if logg != nil {
		logg.Info(logg.WithField(ctx, "sandbox", sandbox), "midtrans snap client initialized")
	}
	return &Client{snap: &snapClient, logg: logg}, nil
}

func environment(sandbox bool) midtrans.EnvironmentType {
	if sandbox {
		return midtrans.Sandbox
	}
	return midtrans.Production
}

func (c *Client) Name() string { return providerName }

// CreatePaymentPreference creates a Snap transaction. The Snap token doubles as the preference id.
func (c *Client) CreatePaymentPreference(ctx context.Context, cart payments.Cart) (*payments.Preference, error) {
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The Snap SDK has no context support; the caller's deadline still bounds the wait.
	type result struct {
		resp *snap.Response
		err  error
	}
	done := make(chan result, 1)
	req := buildRequest(cart)
	go func() {
		resp, mErr := c.snap.CreateTransaction(req)
		if mErr != nil {
			done <- result{err: fmt.Errorf("create midtrans transaction: %s", mErr.Error())}
			return
		}
		done <- result{resp: resp}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, res.err
	}
	if res.resp == nil || res.resp.RedirectURL == "" {
		return nil, payments.ErrMissingRedirect
	}
	return &payments.Preference{ID: res.resp.Token, RedirectURL: res.resp.RedirectURL}, nil
}

func buildRequest(cart payments.Cart) *snap.Request {
	gross := cart.Total
	itemsTotal := decimal.Zero
	details := make([]midtrans.ItemDetails, 0, len(cart.Items))
	for i, item := range cart.Items {
		price := item.UnitPrice.Round(0)
		itemsTotal = itemsTotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		details = append(details, midtrans.ItemDetails{
			ID:    fmt.Sprintf("%s-%d", cart.Reference, i+1),
			Name:  truncate(item.Name, 50),
			Price: price.IntPart(),
			Qty:   int32(item.Quantity),
		})
	}
	if gross.IsZero() {
		gross = itemsTotal
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  cart.Reference,
			GrossAmt: gross.Round(0).IntPart(),
		},
	}
	// Snap rejects item details whose sum differs from the gross amount.
	if itemsTotal.Equal(gross.Round(0)) {
		req.Items = &details
	}
	if cart.BackURLs.Success != "" {
		req.Callbacks = &snap.Callbacks{Finish: cart.BackURLs.Success}
	}
	return req
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
