package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OtpCode is a short-lived login code for a phone number. At most one valid
// (unused, unexpired) code exists per phone: issuing a new code deletes the
// previous ones first.
type OtpCode struct {
	bun.BaseModel `bun:"table:otp_codes"`

	ID        int64     `bun:",pk,autoincrement"`
	Phone     string    `bun:"phone,notnull"`
	Code      string    `bun:"code,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	IsUsed    bool      `bun:"is_used,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}

// Valid reports whether the code can still be redeemed at the given instant.
func (c *OtpCode) Valid(now time.Time) bool {
	return c != nil && !c.IsUsed && c.ExpiresAt.After(now)
}
