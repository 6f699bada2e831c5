package admin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
)

const dashboardRoute = "/admin/dashboard"

type Handler struct {
	service   Service
	responder *web.Responder
}

func NewHandler(service Service, responder *web.Responder) *Handler {
	return &Handler{service: service, responder: responder}
}

// RegisterRoutes mounts the admin pages on an admin-guarded group.
func (h *Handler) RegisterRoutes(admin gin.IRouter) {
	admin.GET(dashboardRoute, h.Dashboard)
	admin.POST("/admin/approve/:user_id", h.Approve)
	admin.POST("/admin/reject/:user_id", h.Reject)
	admin.POST("/revoke_user/:user_id", h.Revoke)
}

func (h *Handler) Dashboard(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context(), auth.Actor(c))
	if err != nil {
		h.responder.Fail(c, err, "/")
		return
	}

	web.HTML(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Title":    "Admin dashboard",
		"Pending":  overview.Pending,
		"Approved": overview.Approved,
	})
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve, "%s has been approved.")
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject, "%s has been rejected and removed.")
}

func (h *Handler) Revoke(c *gin.Context) {
	h.decide(c, h.service.Revoke, "Approval for %s has been revoked.")
}

type decision func(ctx context.Context, actor *user.User, userID int) (*user.User, error)

func (h *Handler) decide(c *gin.Context, fn decision, format string) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || userID <= 0 {
		web.NotFound(c)
		return
	}

	target, err := fn(c.Request.Context(), auth.Actor(c), userID)
	if err != nil {
		h.responder.Fail(c, err, dashboardRoute)
		return
	}

	web.Redirect(c, dashboardRoute, fmt.Sprintf(format, target.Email))
}
