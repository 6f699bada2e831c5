package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Responder turns service errors into pages and redirects.
type Responder struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewResponder(logger *slog.Logger, m *metrics.Metrics) *Responder {
	return &Responder{logger: logger, metrics: m}
}

// Fail handles err: a denial redirects to fallback with its reason, a missing
// record renders the not-found page, anything else is a 500.
func (r *Responder) Fail(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()

	if reason, ok := access.AsDenied(err); ok {
		r.logger.InfoContext(ctx, "request denied", "path", c.Request.URL.Path, "reason", reason)
		r.metrics.RecordDenied(ctx, c.FullPath())
		Redirect(c, fallback, reason)
		return
	}

	if errors.Is(err, db.ErrNotFound) {
		r.logger.InfoContext(ctx, "not found", "path", c.Request.URL.Path, "error", err)
		NotFound(c)
		return
	}

	r.logger.ErrorContext(ctx, "internal error", "path", c.Request.URL.Path, "error", err)
	HTML(c, http.StatusInternalServerError, "error.html", nil)
}

// Deny redirects to fallback with msg.
func (r *Responder) Deny(c *gin.Context, msg, fallback string) {
	r.Fail(c, access.Denied(msg), fallback)
}

// Invalid redirects back to the form with a message built from a bind or validation error.
func (r *Responder) Invalid(c *gin.Context, err error, fallback string) {
	r.logger.InfoContext(c.Request.Context(), "invalid form", "path", c.Request.URL.Path, "error", err)
	Redirect(c, fallback, ValidationMessage(err))
}

// ValidationMessage lists the offending form fields of a validator error.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Please check the form and try again."
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Sprintf("Please check these fields: %s.", strings.Join(fields, ", "))
}
