package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"

	sessionIDKey = "session_id"
)

// Middleware loads the actor from the session cookie. It never rejects a
// request; route guards decide what an anonymous visitor may see.
func Middleware(service *Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		actor, session, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				logger.ErrorContext(c.Request.Context(), "failed to authenticate session", "error", err)
			}
			c.Next()
			return
		}

		c.Set(web.ActorKey, actor)
		c.Set(sessionIDKey, session.ID)
		c.Next()
	}
}

// RequireLogin sends anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Actor(c) == nil {
			web.Redirect(c, "/login", access.MsgLoginRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole lets through only actors with role. Others go back to their own dashboard.
func RequireRole(role user.Role, responder *web.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if d := access.RequireRole(actor, role); !d.Allowed {
			fallback := "/login"
			if actor != nil {
				fallback = access.DashboardFor(actor.Role)
			}
			responder.Fail(c, d.Err(), fallback)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Actor returns the logged-in user, or nil.
func Actor(c *gin.Context) *user.User {
	v, ok := c.Get(web.ActorKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
