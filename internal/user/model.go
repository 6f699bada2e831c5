package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleLandlord Role = "landlord"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLandlord, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// NeedsApproval reports whether accounts with this role start unapproved.
func (r Role) NeedsApproval() bool {
	return r == RoleLandlord || r == RoleSeller
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	Email      string    `bun:"email,unique,notnull" json:"email"`
	Name       string    `bun:"name" json:"name"`
	Password   string    `bun:"password,notnull" json:"-"` // bcrypt hash
	Role       Role      `bun:"role,notnull" json:"role"`
	IsApproved bool      `bun:"is_approved,notnull,default:false" json:"isApproved"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
