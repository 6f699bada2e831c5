package item

import (
	"time"

	"github.com/uptrace/bun"
)

type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	Price       float64   `bun:"price" json:"price"`
	Phone       string    `bun:"phone" json:"phone"`
	Location    string    `bun:"location" json:"location"`
	Photo       string    `bun:"photo" json:"photo"`
	SellerID    int       `bun:"seller_id,notnull" json:"sellerId"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

type Input struct {
	Title       string  `form:"title" validate:"required,max=120"`
	Description string  `form:"description" validate:"max=2000"`
	Price       float64 `form:"price" validate:"gte=0"`
	Phone       string  `form:"phone" validate:"max=20"`
	Location    string  `form:"location" validate:"max=120"`
}

func (in Input) apply(it *Item) {
	it.Title = in.Title
	it.Description = in.Description
	it.Price = in.Price
	it.Phone = in.Phone
	it.Location = in.Location
}
