package enums

// OrderStatus is the free-text lifecycle label stored on an order.
type OrderStatus string

// OrderStatusPending is the only status checkout ever writes.
const OrderStatusPending OrderStatus = "Pendente"

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}
