package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderSession is an admin-defined time window during which company members
// may place orders. Activity is a manually toggled flag, not derived from the
// clock.
type OrderSession struct {
	bun.BaseModel `bun:"table:order_sessions"`

	ID          int64     `bun:",pk,autoincrement"`
	Title       string    `bun:"title,notnull"`
	Description *string   `bun:"description"`
	StartTime   time.Time `bun:"start_time,notnull"`
	EndTime     time.Time `bun:"end_time,notnull"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	CompanyID   int64     `bun:"company_id,notnull"`
	CreatedByID int64     `bun:"created_by_id,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero"`

	CreatedBy *User `bun:"rel:belongs-to,join:created_by_id=id"`

	// OrderCount is populated by list queries, not a column.
	OrderCount int `bun:"order_count,scanonly"`
}
