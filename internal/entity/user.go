package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// User roles. Admins manage menus, sessions, and billing for their company.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is an employee identified by phone number. Users are created lazily on
// first successful OTP verification.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        int64     `bun:",pk,autoincrement"`
	Phone     string    `bun:"phone,unique,notnull"`
	Name      *string   `bun:"name"`
	Email     *string   `bun:"email"`
	Role      string    `bun:"role,notnull,default:'USER'"`
	CompanyID *int64    `bun:"company_id"`
	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`

	Company *Company `bun:"rel:belongs-to,join:company_id=id"`
}
