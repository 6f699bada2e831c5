package house

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	dashboardRoute = "/landlord/dashboard"

	msgPosted  = "House posted successfully!"
	msgUpdated = "House updated successfully!"
	msgDeleted = "House deleted successfully."
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

// RegisterRoutes mounts the landlord pages on landlord (already role-guarded)
// and the house detail page on authed.
func (h *Handler) RegisterRoutes(landlord, authed gin.IRouter) {
	landlord.GET("/landlord/post", h.PostPage)
	landlord.POST("/landlord/post", h.Post)
	landlord.GET("/landlord/edit/:id", h.EditPage)
	landlord.POST("/landlord/edit/:id", h.Edit)
	landlord.POST("/landlord/delete/:id", h.Delete)

	authed.GET("/view_house/:id", h.View)
}

func (h *Handler) PostPage(c *gin.Context) {
	web.HTML(c, http.StatusOK, "house_form.html", gin.H{
		"Title":  "Post a house",
		"Action": "/landlord/post",
	})
}

func (h *Handler) Post(c *gin.Context) {
	// Approval is checked before the form so an unapproved owner never sees field errors.
	if err := access.CanPublish(auth.Actor(c), user.RoleLandlord).Err(); err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	in, err := h.bindInput(c)
	if err != nil {
		h.responder.Invalid(c, err, "/landlord/post")
		return
	}

	upload, err := photo.FromForm(c, "photo")
	if err != nil {
		h.responder.Invalid(c, err, "/landlord/post")
		return
	}
	defer upload.Close()

	if _, err := h.service.Create(c.Request.Context(), auth.Actor(c), in, upload); err != nil {
		h.responder.Fail(c, err, "/landlord/post")
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

	house, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}
	if err := access.RequireOwner(auth.Actor(c), house.LandlordID, access.MsgNotOwner).Err(); err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	web.HTML(c, http.StatusOK, "house_form.html", gin.H{
		"Title":  "Edit house",
		"Action": fmt.Sprintf("/landlord/edit/%d", house.ID),
		"House":  house,
	})
}

func (h *Handler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		web.NotFound(c)
		return
	}
	editRoute := fmt.Sprintf("/landlord/edit/%d", id)

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

func (h *Handler) View(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		web.NotFound(c)
		return
	}

	house, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.responder.Fail(c, err, "/student/dashboard")
		return
	}

	web.HTML(c, http.StatusOK, "view_house.html", gin.H{
		"Title": house.Title,
		"House": house,
	})
}

func (h *Handler) bindInput(c *gin.Context) (Input, error) {
	var in Input
	if err := c.ShouldBind(&in); err != nil {
		return in, err
	}

	deposit, err := parseOptionalFloat(c.PostForm("deposit"))
	if err != nil {
		return in, err
	}
	in.Deposit = deposit
	in.Water = c.PostForm("water") != ""
	in.Wifi = c.PostForm("wifi") != ""

	return in, h.validate.Struct(in)
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}
