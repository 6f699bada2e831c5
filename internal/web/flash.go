package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie = "flash"

	secureCookiesKey = "secure_cookies"
)

// SecureCookies marks the cookies this package writes as Secure when secure
// is true. It follows session.secure_cookie.
func SecureCookies(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureCookiesKey, secure)
		c.Next()
	}
}

// SetFlash stores a one-shot message for the next rendered page.
func SetFlash(c *gin.Context, msg string) {
	c.Set(flashCookie, msg)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, msg, 60, "/", "", c.GetBool(secureCookiesKey), true)
}

// PopFlash returns the pending message, if any, and clears it.
func PopFlash(c *gin.Context) string {
	if v, ok := c.Get(flashCookie); ok {
		c.Set(flashCookie, "")
		clearFlash(c)
		msg, _ := v.(string)
		return msg
	}

	msg, err := c.Cookie(flashCookie)
	if err != nil || msg == "" {
		return ""
	}
	clearFlash(c)
	return msg
}

func clearFlash(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", c.GetBool(secureCookiesKey), true)
}

// Redirect sends a 303 to location, carrying msg as a flash when non-empty.
func Redirect(c *gin.Context, location, msg string) {
	if msg != "" {
		SetFlash(c, msg)
	}
	c.Redirect(http.StatusSeeOther, location)
}
