package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/officefood/officefood/internal/entity"
)

// MenuItemResponse represents a menu item as exposed via transport layers.
type MenuItemResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"imageUrl"`
	IsAvailable bool            `json:"isAvailable"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MenuItemSummary is the abbreviated menu item shape embedded in order lines.
type MenuItemSummary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"imageUrl"`
}

// MenuItemFromEntity maps a menu item entity onto its transport representation.
func MenuItemFromEntity(item *entity.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// MenuItemSummaryFromEntity maps a menu item onto its abbreviated shape.
func MenuItemSummaryFromEntity(item *entity.MenuItem) MenuItemSummary {
	if item == nil {
		return MenuItemSummary{}
	}
	return MenuItemSummary{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
	}
}
