package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Company owns users, menu items, and order sessions.
type Company struct {
	bun.BaseModel `bun:"table:companies"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name"`
	Description *string   `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`
}
