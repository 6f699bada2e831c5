package web_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() (*gin.Engine, *web.Responder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	web.LoadTemplates(router)
	return router, web.NewResponder(logger.Discard(), metrics.NewMock())
}

func TestResponder_Fail(t *testing.T) {
	router, responder := newRouter()

	router.GET("/denied", func(c *gin.Context) {
		responder.Fail(c, fmt.Errorf("post house: %w", access.Denied(access.MsgApprovalRequired)), "/landlord/dashboard")
	})
	router.GET("/missing", func(c *gin.Context) {
		responder.Fail(c, fmt.Errorf("house %w", db.ErrNotFound), "/")
	})
	router.GET("/broken", func(c *gin.Context) {
		responder.Fail(c, fmt.Errorf("connection reset"), "/")
	})

	t.Run("Denied_RedirectsWithFlash", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/denied", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/landlord/dashboard", w.Header().Get("Location"))

		var flash *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "flash" {
				flash = c
			}
		}
		require.NotNil(t, flash, "flash cookie should be set")
		assert.NotEmpty(t, flash.Value)
	})

	t.Run("NotFound_Renders404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Not found")
	})

	t.Run("Unexpected_Renders500", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
	})
}

func TestFlash_SurvivesRedirect(t *testing.T) {
	router, _ := newRouter()

	router.GET("/set", func(c *gin.Context) {
		web.Redirect(c, "/show", "House posted successfully!")
	})
	router.GET("/show", func(c *gin.Context) {
		web.HTML(c, http.StatusOK, "login.html", nil)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "House posted successfully!")

	// the flash is cleared once shown
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestFlash_FollowsSecureSetting(t *testing.T) {
	for _, secure := range []bool{true, false} {
		t.Run(fmt.Sprintf("secure=%v", secure), func(t *testing.T) {
			router, _ := newRouter()
			router.Use(web.SecureCookies(secure))
			router.GET("/set", func(c *gin.Context) {
				web.Redirect(c, "/show", "Welcome back!")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))

			var found bool
			for _, c := range w.Result().Cookies() {
				if c.Name == "flash" {
					found = true
					assert.Equal(t, secure, c.Secure)
					assert.True(t, c.HttpOnly)
				}
			}
			assert.True(t, found, "flash cookie should be set")
		})
	}
}

func TestValidationMessage(t *testing.T) {
	type form struct {
		Title string `validate:"required"`
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(form{Email: "nope"})
	require.Error(t, err)

	assert.Equal(t, "Please check these fields: title, email.", web.ValidationMessage(err))
	assert.Equal(t, "Please check the form and try again.", web.ValidationMessage(fmt.Errorf("bad multipart")))
}
