package booking

import (
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/house"

	"github.com/uptrace/bun"
)

// Booking is a reservation request against a house. It is not linked to a
// user account; the student identifies themselves in the form.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID           int          `bun:"id,pk,autoincrement" json:"id"`
	HouseID      int          `bun:"house_id,notnull" json:"houseId"`
	House        *house.House `bun:"rel:belongs-to,join:house_id=id" json:"house,omitempty"`
	StudentName  string       `bun:"student_name,notnull" json:"studentName"`
	StudentEmail string       `bun:"student_email,notnull" json:"studentEmail"`
	StudentPhone string       `bun:"student_phone,notnull" json:"studentPhone"`
	IDNumber     string       `bun:"id_number,notnull" json:"idNumber"`
	MoveInDate   string       `bun:"move_in_date,notnull" json:"moveInDate"` // free text, not parsed
	Message      string       `bun:"message,nullzero" json:"message,omitempty"`
	CreatedAt    time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type Input struct {
	StudentName  string `form:"fullname" validate:"required,max=100"`
	StudentEmail string `form:"email" validate:"required,email,max=100"`
	StudentPhone string `form:"phone" validate:"required,max=20"`
	IDNumber     string `form:"id_number" validate:"required,max=20"`
	MoveInDate   string `form:"move_in_date" validate:"required,max=20"`
	Message      string `form:"message" validate:"max=2000"`
}
