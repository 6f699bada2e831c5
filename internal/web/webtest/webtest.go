// Package webtest drives gin handlers in tests without the session layer.
package webtest

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const actorHeader = "X-Test-Actor"

// Client sends requests as one of the registered actors.
type Client struct {
	t      *testing.T
	Router *gin.Engine
	actors map[string]*user.User
}

// NewClient returns a router with templates loaded and a middleware that puts
// the actor named by the request into the gin context. Use Responder to build
// the handlers under test.
func NewClient(t *testing.T, actors map[string]*user.User) (*Client, *web.Responder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c := &Client{t: t, Router: gin.New(), actors: actors}
	web.LoadTemplates(c.Router)
	c.Router.Use(func(ctx *gin.Context) {
		if actor, ok := c.actors[ctx.GetHeader(actorHeader)]; ok {
			ctx.Set(web.ActorKey, actor)
		}
		ctx.Next()
	})
	return c, web.NewResponder(logger.Discard(), metrics.NewMock())
}

func (c *Client) do(as string, req *http.Request) *httptest.ResponseRecorder {
	if as != "" {
		req.Header.Set(actorHeader, as)
	}
	w := httptest.NewRecorder()
	c.Router.ServeHTTP(w, req)
	return w
}

func (c *Client) Get(as, path string) *httptest.ResponseRecorder {
	return c.do(as, httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *Client) PostForm(as, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(as, req)
}

// PostMultipart sends fields plus, when filename is set, a "photo" file part.
func (c *Client) PostMultipart(as, path string, fields url.Values, filename string) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(c.t, mw.WriteField(k, v))
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("photo", filename)
		require.NoError(c.t, err)
		_, err = fw.Write([]byte("img"))
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(as, req)
}

// Flash decodes the flash cookie set by the response, or "" when none was set.
func Flash(t *testing.T, w *httptest.ResponseRecorder) string {
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
