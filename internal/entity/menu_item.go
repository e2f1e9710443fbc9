package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// MenuItem is a dish offered by a company. Prices are stored with two decimal
// places; orders snapshot the price at creation time.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID          int64           `bun:",pk,autoincrement"`
	Name        string          `bun:"name,notnull"`
	Description *string         `bun:"description"`
	Price       decimal.Decimal `bun:"price,notnull"`
	Category    string          `bun:"category,notnull"`
	ImageURL    *string         `bun:"image_url"`
	IsAvailable bool            `bun:"is_available,notnull,default:true"`
	CompanyID   int64           `bun:"company_id,notnull"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero"`
}
