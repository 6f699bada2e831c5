package house

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type House struct {
	bun.BaseModel `bun:"table:houses,alias:h"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Location      string    `bun:"location" json:"location"`
	Rent          float64   `bun:"rent" json:"rent"`
	Distance      float64   `bun:"distance" json:"distance"`
	Deposit       *float64  `bun:"deposit" json:"deposit,omitempty"`
	HouseType     string    `bun:"house_type" json:"houseType"`
	Water         bool      `bun:"water,notnull" json:"water"`
	Wifi          bool      `bun:"wifi,notnull" json:"wifi"`
	Photo         string    `bun:"photo" json:"photo"` // photo store key
	ContactNumber string    `bun:"contact_number" json:"contactNumber"`
	LandlordID    int       `bun:"landlord_id,notnull" json:"landlordId"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// DepositText formats the optional deposit for display.
func (h House) DepositText() string {
	if h.Deposit == nil {
		return ""
	}
	return strconv.FormatFloat(*h.Deposit, 'f', -1, 64)
}

// Input is the post/edit form. Water, Wifi and Deposit are filled by the
// handler because checkboxes and empty numbers do not bind cleanly.
type Input struct {
	Title         string   `form:"title" validate:"required,max=120"`
	Location      string   `form:"location" validate:"max=120"`
	Rent          float64  `form:"rent" validate:"gte=0"`
	Distance      float64  `form:"distance" validate:"gte=0"`
	Deposit       *float64 `form:"-" validate:"omitempty,gte=0"`
	HouseType     string   `form:"house_type" validate:"max=50"`
	Water         bool     `form:"-"`
	Wifi          bool     `form:"-"`
	ContactNumber string   `form:"contact_number" validate:"max=20"`
}

func (in Input) apply(h *House) {
	h.Title = in.Title
	h.Location = in.Location
	h.Rent = in.Rent
	h.Distance = in.Distance
	h.Deposit = in.Deposit
	h.HouseType = in.HouseType
	h.Water = in.Water
	h.Wifi = in.Wifi
	h.ContactNumber = in.ContactNumber
}
