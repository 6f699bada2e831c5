package item

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	dashboardRoute = "/seller/dashboard"
	postRoute      = "/seller/marketplace"

	msgPosted  = "Item posted successfully!"
	msgUpdated = "Item updated successfully!"
	msgDeleted = "Item deleted successfully."
)

type Handler struct {
	service   Service
	responder *web.Responder
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service Service, responder *web.Responder, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		responder: responder,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegisterRoutes mounts the seller pages on an already role-guarded group.
func (h *Handler) RegisterRoutes(seller gin.IRouter) {
	seller.GET(postRoute, h.PostPage)
	seller.POST(postRoute, h.Post)
	seller.GET("/seller/edit/:id", h.EditPage)
	seller.POST("/seller/edit/:id", h.Edit)
	seller.POST("/seller/delete/:id", h.Delete)
}

func (h *Handler) PostPage(c *gin.Context) {
	web.HTML(c, http.StatusOK, "item_form.html", gin.H{
		"Title":  "Post an item",
		"Action": postRoute,
	})
}

func (h *Handler) Post(c *gin.Context) {
	// Approval is checked before the form so an unapproved owner never sees field errors.
	if err := access.CanPublish(auth.Actor(c), user.RoleSeller).Err(); err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	in, err := h.bindInput(c)
	if err != nil {
		h.responder.Invalid(c, err, postRoute)
		return
	}

	upload, err := photo.FromForm(c, "photo")
	if err != nil {
		h.responder.Invalid(c, err, postRoute)
		return
	}
	defer upload.Close()

	if _, err := h.service.Create(c.Request.Context(), auth.Actor(c), in, upload); err != nil {
		h.responder.Fail(c, err, postRoute)
		return
	}

	web.Redirect(c, dashboardRoute, msgPosted)
}

func (h *Handler) EditPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		web.NotFound(c)
		return
	}

	it, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}
	if err := access.RequireOwner(auth.Actor(c), it.SellerID, access.MsgNotOwner).Err(); err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	web.HTML(c, http.StatusOK, "item_form.html", gin.H{
		"Title":  "Edit item",
		"Action": fmt.Sprintf("/seller/edit/%d", it.ID),
		"Item":   it,
	})
}

func (h *Handler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		web.NotFound(c)
		return
	}
	editRoute := fmt.Sprintf("/seller/edit/%d", id)

	in, err := h.bindInput(c)
	if err != nil {
		h.responder.Invalid(c, err, editRoute)
		return
	}

	upload, err := photo.FromForm(c, "photo")
	if err != nil {
		h.responder.Invalid(c, err, editRoute)
		return
	}
	defer upload.Close()

	if _, err := h.service.Update(c.Request.Context(), auth.Actor(c), id, in, upload); err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	web.Redirect(c, dashboardRoute, msgUpdated)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		web.NotFound(c)
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.Actor(c), id); err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	web.Redirect(c, dashboardRoute, msgDeleted)
}

func (h *Handler) bindInput(c *gin.Context) (Input, error) {
	var in Input
	if err := c.ShouldBind(&in); err != nil {
		return in, err
	}
	return in, h.validate.Struct(in)
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}
