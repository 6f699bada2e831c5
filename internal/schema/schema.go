// Package schema lists the tables of the service in creation order.
package schema

import (
	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/booking"
	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/house"
	"github.com/Mukungiisaac/Sakeja/internal/item"
	"github.com/Mukungiisaac/Sakeja/internal/user"
)

// Tables returns every table, referenced tables first. Deleting a user
// removes its sessions, houses, items and the bookings on those houses.
func Tables() []db.Table {
	return []db.Table{
		{Model: (*user.User)(nil)},
		{
			Model:       (*auth.Session)(nil),
			ForeignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
		},
		{
			Model:       (*house.House)(nil),
			ForeignKeys: []string{`("landlord_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
		},
		{
			Model:       (*item.Item)(nil),
			ForeignKeys: []string{`("seller_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
		},
		{
			Model:       (*booking.Booking)(nil),
			ForeignKeys: []string{`("house_id") REFERENCES "houses" ("id") ON DELETE CASCADE`},
		},
	}
}

// TableNames is the truncation order used by tests.
var TableNames = []string{"bookings", "items", "houses", "sessions", "users"}
