package checkout

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ItemInput is one cart line. The storefront has sent both catalog-shaped items
// (name/price) and order-shaped items (name/unit_price/quantity), so both are accepted.
type ItemInput struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (i *ItemInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string           `json:"name"`
		Title     string           `json:"title"`
		UnitPrice *decimal.Decimal `json:"unit_price"`
		Price     *decimal.Decimal `json:"price"`
		Quantity  *int             `json:"quantity"`
		Qty       *int             `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.Name = raw.Name
	if i.Name == "" {
		i.Name = raw.Title
	}
	switch {
	case raw.UnitPrice != nil:
		i.UnitPrice = *raw.UnitPrice
	case raw.Price != nil:
		i.UnitPrice = *raw.Price
	default:
		i.UnitPrice = decimal.Zero
	}
	switch {
	case raw.Quantity != nil:
		i.Quantity = *raw.Quantity
	case raw.Qty != nil:
		i.Quantity = *raw.Qty
	default:
		i.Quantity = 1
	}
	return nil
}

// Request is the body of POST /api/checkout. "itens" is accepted as an alias of "items".
type Request struct {
	Items []ItemInput      `json:"items"`
	Itens []ItemInput      `json:"itens"`
	Total *decimal.Decimal `json:"total"`
	Token string           `json:"token"`
}

// CartItems returns whichever item list was supplied.
func (r Request) CartItems() []ItemInput {
	if len(r.Items) > 0 {
		return r.Items
	}
	return r.Itens
}

// Input is the service-level checkout command. A nil Total means the line sum is used.
type Input struct {
	Items []ItemInput
	Total *decimal.Decimal
	Token string
}

// Result is returned to the storefront after a successful checkout.
type Result struct {
	OrderID      string `json:"order_id"`
	PreferenceID string `json:"preference_id"`
	RedirectURL  string `json:"redirect_url"`
	Message      string `json:"message"`
}
