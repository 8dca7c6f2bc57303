package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
)

// LineInput describes one cart line as submitted by the storefront.
type LineInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineViolationDetail exposes the data returned to callers when a line is rejected.
type LineViolationDetail struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ValidateLines ensures the cart is non-empty and every line has a name, a positive
// quantity and a non-negative unit price.
func ValidateLines(items []LineInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	var violations []LineViolationDetail
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.Name) == "":
			violations = append(violations, LineViolationDetail{Index: i, Reason: "name is required"})
		case item.Quantity < 1:
			violations = append(violations, LineViolationDetail{Index: i, Name: item.Name, Reason: "quantity must be at least 1"})
		case item.UnitPrice.IsNegative():
			violations = append(violations, LineViolationDetail{Index: i, Name: item.Name, Reason: "unit price must not be negative"})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cart line(s): %d", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}

// SumLines returns the sum of unit price times quantity over all lines.
func SumLines(items []LineInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalMismatch reports whether the submitted total differs from the computed line sum
// once both are rounded to cents.
func TotalMismatch(submitted decimal.Decimal, items []LineInput) (decimal.Decimal, bool) {
	computed := SumLines(items).Round(2)
	return computed, !computed.Equal(submitted.Round(2))
}
