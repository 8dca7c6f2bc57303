package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
)

// DisplayLayout renders timestamps the way the admin page shows them (dd/mm/yyyy, hh:mm:ss).
const DisplayLayout = "02/01/2006, 15:04:05"

// OrderItemDTO is one stored cart line.
type OrderItemDTO struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderDTO is the admin listing shape.
type OrderDTO struct {
	ID        string            `json:"id"`
	Data      string            `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemDTO    `json:"itens"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Provider  string            `json:"provider,omitempty"`
	UserID    *uint64           `json:"user_id"`
	UserName  *string           `json:"user_name"`
	UserCode  *string           `json:"user_code"`
}

// FromModel maps an order (with its optional joined user) for display in loc.
func FromModel(o *models.Order, loc *time.Location) *OrderDTO {
	if o == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	dto := &OrderDTO{
		ID:        o.ID,
		Data:      o.CreatedAt.In(loc).Format(DisplayLayout),
		CreatedAt: o.CreatedAt,
		Items:     items,
		Total:     o.Total,
		Status:    o.Status,
		Provider:  o.Provider,
		UserID:    o.UserID,
	}
	if o.User != nil && o.User.ID != 0 {
		name, code := o.User.Name, o.User.Code
		dto.UserName = &name
		dto.UserCode = &code
	}
	return dto
}
