// Package payments defines the provider-neutral checkout preference contract.
package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart        = errors.New("cart has no items")
	ErrMissingRedirect  = errors.New("provider returned no redirect url")
	ErrMissingReference = errors.New("cart reference is required")
)

// Item is one cart line sent to the provider.
type Item struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// BackURLs are where the provider returns the buyer after payment.
type BackURLs struct {
	Success string
	Failure string
	Pending string
}

// Cart is everything a provider needs to open a hosted checkout.
type Cart struct {
	Reference string
	Items     []Item
	Total     decimal.Decimal
	Currency  string
	BackURLs  BackURLs
}

// Validate checks the fields every provider relies on.
func (c Cart) Validate() error {
	if strings.TrimSpace(c.Reference) == "" {
		return ErrMissingReference
	}
	if len(c.Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// Preference is the provider's answer: an id plus the hosted checkout URL.
type Preference struct {
	ID          string
	RedirectURL string
}

// Provider creates hosted checkout preferences.
type Provider interface {
	Name() string
	CreatePaymentPreference(ctx context.Context, cart Cart) (*Preference, error)
}
