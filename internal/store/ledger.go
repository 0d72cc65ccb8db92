package store

import (
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/google/uuid"
)

// PlaceholderUserID stands in for the signed-in user; there is no auth.
const PlaceholderUserID = "user_123"

// Ledger is the append-only order history, newest first.
type Ledger struct {
	orders []model.Order
	newID  func() string
}

func NewLedger() *Ledger {
	return &Ledger{newID: uuid.NewString}
}

// NewLedgerWithIDs is NewLedger with a custom id generator.
func NewLedgerWithIDs(newID func() string) *Ledger {
	return &Ledger{newID: newID}
}

// Checkout snapshots lines into a new order and prepends it.
// The caller is responsible for clearing the cart in the same step.
func (l *Ledger) Checkout(lines []model.CartLine, now time.Time) model.Order {
	items := make([]model.CartLine, len(lines))
	copy(items, lines)
	o := model.Order{
		ID:        l.newID(),
		UserID:    PlaceholderUserID,
		Items:     items,
		Total:     model.SumLines(items),
		Status:    model.OrderProcessing,
		CreatedAt: now.UTC(),
	}
	l.orders = append([]model.Order{o}, l.orders...)
	return copyOrder(o)
}

// Orders returns copies of all orders, most recent first.
func (l *Ledger) Orders() []model.Order {
	out := make([]model.Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = copyOrder(o)
	}
	return out
}

func (l *Ledger) Len() int { return len(l.orders) }

func copyOrder(o model.Order) model.Order {
	items := make([]model.CartLine, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
