package entities

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// OrderType represents what a material order delivers
type OrderType int

const (
	RegularRawMaterials OrderType = iota
	ExpeditedRawMaterials
	PurchasedPartX
	PurchasedPartY
	PurchasedPartZ
)

// String method for OrderType enum
func (o OrderType) String() string {
	switch o {
	case RegularRawMaterials:
		return "RegularRawMaterials"
	case ExpeditedRawMaterials:
		return "ExpeditedRawMaterials"
	case PurchasedPartX:
		return "PurchasedPartX"
	case PurchasedPartY:
		return "PurchasedPartY"
	case PurchasedPartZ:
		return "PurchasedPartZ"
	default:
		return "Unknown"
	}
}

func (o OrderType) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *OrderType) UnmarshalText(text []byte) error {
	for v := RegularRawMaterials; v <= PurchasedPartZ; v++ {
		if v.String() == string(text) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown order type %q", string(text))
}

// IsRawMaterials reports whether the order delivers raw material
func (o OrderType) IsRawMaterials() bool {
	return o == RegularRawMaterials || o == ExpeditedRawMaterials
}

// Part returns the purchased part an order delivers
func (o OrderType) Part() (PartType, bool) {
	switch o {
	case PurchasedPartX:
		return PartXPrime, true
	case PurchasedPartY:
		return PartYPrime, true
	case PurchasedPartZ:
		return PartZPrime, true
	default:
		return 0, false
	}
}

// PartOrderType returns the order type purchasing part p
func PartOrderType(p PartType) OrderType {
	return PurchasedPartX + OrderType(p)
}

// Order represents a placed material order
type Order struct {
	Type       OrderType       `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	WeekPlaced int             `json:"week_placed"`
	WeekDue    int             `json:"week_due"`
}

// NewOrder creates a validated Order due leadTime weeks after placement
func NewOrder(orderType OrderType, amount decimal.Decimal, weekPlaced, leadTime int) (*Order, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("order amount must be positive, got %s", amount)
	}
	if weekPlaced < 1 {
		return nil, fmt.Errorf("week placed must be at least 1, got %d", weekPlaced)
	}
	if leadTime < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTime)
	}

	return &Order{
		Type:       orderType,
		Amount:     amount,
		WeekPlaced: weekPlaced,
		WeekDue:    weekPlaced + leadTime,
	}, nil
}

// OrderBook is the list of outstanding orders
type OrderBook struct {
	Orders []Order `json:"orders"`
}

// Clone returns an independent copy
func (b OrderBook) Clone() OrderBook {
	orders := make([]Order, len(b.Orders))
	copy(orders, b.Orders)
	return OrderBook{Orders: orders}
}

// Place returns a book with o appended
func (b OrderBook) Place(o Order) OrderBook {
	next := b.Clone()
	next.Orders = append(next.Orders, o)
	return next
}

// Due returns the orders arriving in week
func (b OrderBook) Due(week int) []Order {
	var due []Order
	for _, o := range b.Orders {
		if o.WeekDue == week {
			due = append(due, o)
		}
	}
	return due
}

// Receive splits off the orders due in week. Each order is received exactly once.
func (b OrderBook) Receive(week int) (OrderBook, []Order) {
	next := OrderBook{Orders: make([]Order, 0, len(b.Orders))}
	var received []Order
	for _, o := range b.Orders {
		if o.WeekDue == week {
			received = append(received, o)
		} else {
			next.Orders = append(next.Orders, o)
		}
	}
	return next, received
}

// Pending returns outstanding orders sorted by due week, then placement
func (b OrderBook) Pending() []Order {
	pending := make([]Order, len(b.Orders))
	copy(pending, b.Orders)
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].WeekDue != pending[j].WeekDue {
			return pending[i].WeekDue < pending[j].WeekDue
		}
		return pending[i].WeekPlaced < pending[j].WeekPlaced
	})
	return pending
}
