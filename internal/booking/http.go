package booking

import (
	"fmt"
	"strconv"

	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const msgBooked = "Booking successful! The landlord will contact you soon."

type Handler struct {
	service   Service
	responder *web.Responder
	validate  *validator.Validate
}

func NewHandler(service Service, responder *web.Responder) *Handler {
	return &Handler{
		service:   service,
		responder: responder,
		validate:  validator.New(),
	}
}

func (h *Handler) RegisterRoutes(authed gin.IRouter) {
	authed.POST("/book_house/:id", h.Book)
}

func (h *Handler) Book(c *gin.Context) {
	houseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || houseID <= 0 {
		web.NotFound(c)
		return
	}
	houseRoute := fmt.Sprintf("/view_house/%d", houseID)

	var in Input
	if err := c.ShouldBind(&in); err != nil {
		h.responder.Invalid(c, err, houseRoute)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		h.responder.Invalid(c, err, houseRoute)
		return
	}

	if _, err := h.service.Book(c.Request.Context(), houseID, in); err != nil {
		h.responder.Fail(c, err, "/student/dashboard")
		return
	}

	web.Redirect(c, "/student/dashboard", msgBooked)
}

