package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/officefood/officefood/internal/entity"
)

// OrderItemResponse is one order line with its snapshotted price.
type OrderItemResponse struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Notes    *string         `json:"notes"`
	MenuItem MenuItemSummary `json:"menuItem"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID          int64               `json:"id"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Notes       *string             `json:"notes"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Session     *SessionSummary     `json:"session,omitempty"`
	User        *UserSummary        `json:"user,omitempty"`
	Items       []OrderItemResponse `json:"orderItems"`
}

// SessionOrdersResponse is the admin view of every order in one session.
type SessionOrdersResponse struct {
	Session OrderSessionResponse `json:"session"`
	Orders  []OrderResponse      `json:"orders"`
}

// OrderFromEntity maps an order entity onto its transport representation.
func OrderFromEntity(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:       item.ID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Notes:    item.Notes,
			MenuItem: MenuItemSummaryFromEntity(item.MenuItem),
		})
	}
	return OrderResponse{
		ID:          order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Notes:       order.Notes,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		Session:     SessionSummaryFromEntity(order.Session),
		User:        UserSummaryFromEntity(order.User),
		Items:       items,
	}
}

// OrdersFromEntities maps a slice of orders.
func OrdersFromEntities(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, OrderFromEntity(order))
	}
	return out
}
