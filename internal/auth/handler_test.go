package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/user/usertest"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newRouter(t *testing.T) (*gin.Engine, *usertest.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, users, _ := newService(t)
	log := logger.Discard()
	responder := web.NewResponder(log, metrics.NewMock())

	router := gin.New()
	web.LoadTemplates(router)
	router.Use(auth.Middleware(svc, log))
	auth.NewHandler(svc, responder, log, time.Hour, false).RegisterRoutes(router)
	return router, users
}

func postForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func flash(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	c := cookie(w, "flash")
	require.NotNil(t, c, "flash cookie should be set")
	msg, err := url.QueryUnescape(c.Value)
	require.NoError(t, err)
	return msg
}

func TestHandler_Flow(t *testing.T) {
	router, _ := newRouter(t)

	w := postForm(router, "/register", url.Values{
		"name": {"Lee"}, "email": {"lee@x.com"}, "password": {"pw1"}, "role": {"landlord"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "Registered successfully! You can now log in.", flash(t, w))

	t.Run("Register_Duplicate", func(t *testing.T) {
		w := postForm(router, "/register", url.Values{
			"name": {"Other"}, "email": {"lee@x.com"}, "password": {"pw2"}, "role": {"student"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/register", w.Header().Get("Location"))
		assert.Contains(t, flash(t, w), "Email is already registered")
	})

	t.Run("Register_AdminRoleRejected", func(t *testing.T) {
		w := postForm(router, "/register", url.Values{
			"name": {"Eve"}, "email": {"eve@x.com"}, "password": {"pw"}, "role": {"admin"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/register", w.Header().Get("Location"))
		assert.Contains(t, flash(t, w), "role")
	})

	t.Run("Login_Invalid", func(t *testing.T) {
		w := postForm(router, "/login", url.Values{"email": {"lee@x.com"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, "Invalid login details", flash(t, w))
		assert.Nil(t, cookie(w, auth.SessionCookie))
	})

	t.Run("Login_DashboardLogout", func(t *testing.T) {
		w := postForm(router, "/login", url.Values{"email": {"lee@x.com"}, "password": {"pw1"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/landlord/dashboard", w.Header().Get("Location"))
		assert.Equal(t, "Welcome back!", flash(t, w))

		session := cookie(w, auth.SessionCookie)
		require.NotNil(t, session)
		assert.True(t, session.HttpOnly)

		w = get(router, "/dashboard", session)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/landlord/dashboard", w.Header().Get("Location"))

		w = postForm(router, "/logout", url.Values{}, session)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		// the old cookie no longer authenticates
		w = get(router, "/dashboard", session)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("Home_RedirectsToLogin", func(t *testing.T) {
		w := get(router, "/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("Pages_Render", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(router, "/login").Code)
		assert.Equal(t, http.StatusOK, get(router, "/register").Code)
	})
}

func TestHandler_LoginPage_RoleWithoutDashboard(t *testing.T) {
	router, users := newRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	users.Add(user.User{Email: "ghost@x.com", Name: "Ghost", Password: string(hash), Role: user.Role("guest"), IsApproved: true})

	w := postForm(router, "/login", url.Values{"email": {"ghost@x.com"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	session := cookie(w, auth.SessionCookie)
	require.NotNil(t, session)

	// "/" sends to /login, which must render instead of bouncing back to "/"
	w = get(router, "/login", session)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}
