package app_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/app"
	"github.com/Mukungiisaac/Sakeja/internal/auth"
	"github.com/Mukungiisaac/Sakeja/internal/config"
	"github.com/Mukungiisaac/Sakeja/internal/events"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/schema"
	"github.com/Mukungiisaac/Sakeja/internal/testutil/testdb"
	"github.com/Mukungiisaac/Sakeja/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// client keeps the session cookie between requests like a browser would.
type client struct {
	t       *testing.T
	router  http.Handler
	session *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.session != nil {
		req.AddCookie(c.session)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == auth.SessionCookie {
			if ck.MaxAge < 0 {
				c.session = nil
			} else {
				c.session = ck
			}
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("photo", filename)
		require.NoError(c.t, err)
		_, err = fw.Write(content)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	c.t.Helper()
	w := c.post("/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(c.t, http.StatusSeeOther, w.Code)
	return w
}

func flash(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "flash" && ck.Value != "" {
			msg, err := url.QueryUnescape(ck.Value)
			require.NoError(t, err)
			return msg
		}
	}
	return ""
}

func TestApp_Scenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	gin.SetMode(gin.TestMode)

	pg := testdb.SetupSharedPostgres(t)
	pg.Migrate(t, schema.Tables()...)
	testdb.CleanupTables(t, pg.DB, schema.TableNames...)

	cfg := &config.Config{
		Env:     "test",
		Session: config.SessionConfig{Secret: "test-secret", TTLMinutes: 60},
		Storage: config.StorageConfig{MaxUploadMB: 2},
	}
	m := metrics.NewMock()
	log := logger.Discard()
	sessions := auth.NewMemoryStore()
	photos := photo.NewMemoryStore()

	router, err := app.NewRouter(app.Deps{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		DB:        pg.DB,
		Sessions:  sessions,
		Photos:    photos,
		Publisher: events.NewNop(),
	})
	require.NoError(t, err)

	// The admin is seeded out of band, as cmd/createadmin does.
	tokens, err := auth.NewTokenManager("seed")
	require.NoError(t, err)
	seeder := auth.NewService(user.NewRepository(pg.DB, m), auth.NewPostgresStore(pg.DB, m), tokens, time.Hour, m, log)
	_, created, err := seeder.CreateAdmin(context.Background(), "admin@sakeja.com", "Admin", "adminpass")
	require.NoError(t, err)
	require.True(t, created)

	landlord := &client{t: t, router: router}
	admin := &client{t: t, router: router}
	student := &client{t: t, router: router}

	houseForm := map[string]string{
		"title": "Room A", "location": "Gate B", "rent": "5000", "distance": "1.5",
		"house_type": "Bedsitter", "water": "on", "contact_number": "0700000000",
	}

	var landlordID int

	t.Run("HealthSkipsSessions", func(t *testing.T) {
		w := (&client{t: t, router: router}).get("/health")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UnapprovedLandlordCannotPost", func(t *testing.T) {
		w := landlord.post("/register", url.Values{
			"name": {"Lee"}, "email": {"a@x.com"}, "password": {"pw1"}, "role": {"landlord"},
		})
		require.Equal(t, http.StatusSeeOther, w.Code)

		w = landlord.login("a@x.com", "pw1")
		assert.Equal(t, "/landlord/dashboard", w.Header().Get("Location"))
		require.NotNil(t, landlord.session)

		w = landlord.postMultipart("/landlord/post", houseForm, "room.jpg", []byte("jpeg"))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/landlord/dashboard", w.Header().Get("Location"))
		assert.Contains(t, flash(t, w), "awaiting admin approval")
		assert.Zero(t, photos.Len())

		u, err := user.NewRepository(pg.DB, m).GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		landlordID = u.ID
	})

	t.Run("StudentCannotReachAdmin", func(t *testing.T) {
		student.post("/register", url.Values{
			"name": {"Jane"}, "email": {"jane@x.com"}, "password": {"pw"}, "role": {"student"},
		})
		w := student.login("jane@x.com", "pw")
		assert.Equal(t, "/student/dashboard", w.Header().Get("Location"))

		w = student.post(fmt.Sprintf("/admin/approve/%d", landlordID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/student/dashboard", w.Header().Get("Location"))
	})

	t.Run("AdminApproves", func(t *testing.T) {
		w := admin.login("admin@sakeja.com", "adminpass")
		assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

		w = admin.get("/admin/dashboard")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a@x.com")

		w = admin.post(fmt.Sprintf("/admin/approve/%d", landlordID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "a@x.com has been approved.", flash(t, w))
	})

	t.Run("ApprovedLandlordPosts", func(t *testing.T) {
		w := landlord.postMultipart("/landlord/post", houseForm, "", nil)
		assert.Equal(t, "/landlord/post", w.Header().Get("Location"))
		assert.Equal(t, "Please upload a photo.", flash(t, w))

		w = landlord.postMultipart("/landlord/post", houseForm, "room.jpg", []byte("jpeg"))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/landlord/dashboard", w.Header().Get("Location"))
		assert.Equal(t, "House posted successfully!", flash(t, w))
		assert.Equal(t, 1, photos.Len())

		w = landlord.get("/landlord/dashboard")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Room A")
	})

	t.Run("StudentBooks", func(t *testing.T) {
		w := student.get("/student/dashboard")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Room A")

		var houseID int
		require.NoError(t, pg.DB.NewSelect().Table("houses").Column("id").Limit(1).Scan(context.Background(), &houseID))

		w = student.post(fmt.Sprintf("/book_house/%d", houseID), url.Values{
			"fullname": {"Jane Doe"}, "email": {"jane@x.com"}, "phone": {"0711"},
			"id_number": {"12345678"}, "move_in_date": {"2025-09-01"},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/student/dashboard", w.Header().Get("Location"))

		w = landlord.get("/landlord/dashboard")
		assert.Contains(t, w.Body.String(), "Jane Doe")
	})

	t.Run("AdminRejectRemovesEverything", func(t *testing.T) {
		w := admin.post(fmt.Sprintf("/admin/reject/%d", landlordID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "a@x.com has been rejected and removed.", flash(t, w))

		ctx := context.Background()
		for _, table := range []string{"houses", "bookings"} {
			n, err := pg.DB.NewSelect().Table(table).Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n, table)
		}
		assert.Zero(t, photos.Len())

		w = landlord.get("/landlord/dashboard")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}
