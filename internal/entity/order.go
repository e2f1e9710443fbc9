package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Order statuses. Transitions are currently unconstrained.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a user's order against a session. TotalAmount is derived from the
// line items at creation time and never recomputed.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          int64           `bun:",pk,autoincrement"`
	Status      string          `bun:"status,notnull,default:'PENDING'"`
	TotalAmount decimal.Decimal `bun:"total_amount,notnull"`
	Notes       *string         `bun:"notes"`
	UserID      int64           `bun:"user_id,notnull"`
	SessionID   int64           `bun:"session_id,notnull"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero"`

	Items   []*OrderItem  `bun:"rel:has-many,join:id=order_id"`
	User    *User         `bun:"rel:belongs-to,join:user_id=id"`
	Session *OrderSession `bun:"rel:belongs-to,join:session_id=id"`
}

// OrderItem is one line of an order. Price is the menu item price snapshotted
// at order creation; later menu edits must not alter it.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID         int64           `bun:",pk,autoincrement"`
	Quantity   int             `bun:"quantity,notnull"`
	Price      decimal.Decimal `bun:"price,notnull"`
	Notes      *string         `bun:"notes"`
	OrderID    int64           `bun:"order_id,notnull"`
	MenuItemID int64           `bun:"menu_item_id,notnull"`

	MenuItem *MenuItem `bun:"rel:belongs-to,join:menu_item_id=id"`
}
