package payments

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestItemSubtotal(t *testing.T) {
	item := Item{Name: "Scooter", UnitPrice: decimal.RequireFromString("4500.00"), Quantity: 2}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("9000")) {
		t.Fatalf("unexpected subtotal %s", got)
	}
}

func TestCartValidate(t *testing.T) {
	if err := (Cart{Items: []Item{{Name: "x", Quantity: 1}}}).Validate(); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	if err := (Cart{Reference: "ref"}).Validate(); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if err := (Cart{Reference: "ref", Items: []Item{{Name: "x", Quantity: 1}}}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
