package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a server-side login. The cookie only carries a signed reference to it.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    int       `bun:"user_id,notnull" json:"userId"`
	ExpiresAt time.Time `bun:"expires_at,notnull" json:"expiresAt"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RegisterRequest is the registration form. Admin accounts cannot be self-registered.
type RegisterRequest struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=120"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=student landlord seller"`
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}
