package photo

import (
	"io"
	"net/http"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store     Store
	responder *web.Responder
}

func NewHandler(store Store, responder *web.Responder) *Handler {
	return &Handler{store: store, responder: responder}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/photos/:key", h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	key := c.Param("key")
	if !ValidKey(key) {
		web.NotFound(c)
		return
	}

	rc, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		h.responder.Fail(c, err, access.HomeRoute)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "private, max-age=86400")
	c.Status(http.StatusOK)
	c.Header("Content-Type", ContentType(key))
	io.Copy(c.Writer, rc)
}
