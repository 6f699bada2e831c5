// Package dashboard renders the per-role landing pages and the public listings.
package dashboard

import (
	"net/http"

	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/booking"
	"github.com/Mukungiisaac/Sakeja/internal/house"
	"github.com/Mukungiisaac/Sakeja/internal/item"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	houses    house.Service
	items     item.Service
	bookings  booking.Service
	responder *web.Responder
}

func NewHandler(houses house.Service, items item.Service, bookings booking.Service, responder *web.Responder) *Handler {
	return &Handler{
		houses:    houses,
		items:     items,
		bookings:  bookings,
		responder: responder,
	}
}

// RegisterRoutes mounts each page on the group that already enforces its guard.
func (h *Handler) RegisterRoutes(landlord, seller, authed gin.IRouter) {
	landlord.GET("/landlord/dashboard", h.Landlord)
	seller.GET("/seller/dashboard", h.Seller)
	authed.GET("/student/dashboard", h.Student)
	authed.GET("/marketplace", h.Marketplace)
}

func (h *Handler) Landlord(c *gin.Context) {
	ctx := c.Request.Context()
	actor := auth.Actor(c)

	houses, err := h.houses.ListByLandlord(ctx, actor.ID)
	if err != nil {
		h.responder.Fail(c, err, "/")
		return
	}
	bookings, err := h.bookings.ListForLandlord(ctx, actor.ID)
	if err != nil {
		h.responder.Fail(c, err, "/")
		return
	}

	web.HTML(c, http.StatusOK, "landlord_dashboard.html", gin.H{
		"Title":    "Landlord dashboard",
		"Houses":   houses,
		"Bookings": bookings,
	})
}

func (h *Handler) Seller(c *gin.Context) {
	items, err := h.items.ListBySeller(c.Request.Context(), auth.Actor(c).ID)
	if err != nil {
		h.responder.Fail(c, err, "/")
		return
	}

	web.HTML(c, http.StatusOK, "seller_dashboard.html", gin.H{
		"Title": "Seller dashboard",
		"Items": items,
	})
}

// Student lists every house. Any logged-in role may browse it.
func (h *Handler) Student(c *gin.Context) {
	houses, err := h.houses.List(c.Request.Context())
	if err != nil {
		h.responder.Fail(c, err, "/")
		return
	}

	web.HTML(c, http.StatusOK, "student_dashboard.html", gin.H{
		"Title":  "Available houses",
		"Houses": houses,
	})
}

func (h *Handler) Marketplace(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		h.responder.Fail(c, err, "/")
		return
	}

	web.HTML(c, http.StatusOK, "marketplace.html", gin.H{
		"Title": "Marketplace",
		"Items": items,
	})
}
