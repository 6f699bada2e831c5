package photo_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/photo"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	store, err := photo.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	t.Run("SameFilename_DistinctKeys", func(t *testing.T) {
		k1, err := store.Save(ctx, &photo.Upload{Filename: "room.JPG", Content: strings.NewReader("first")})
		require.NoError(t, err)
		k2, err := store.Save(ctx, &photo.Upload{Filename: "room.JPG", Content: strings.NewReader("second")})
		require.NoError(t, err)

		assert.NotEqual(t, k1, k2)
		assert.True(t, strings.HasSuffix(k1, ".jpg"))

		rc, err := store.Open(ctx, k1)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})

	t.Run("UnknownExtension_Dropped", func(t *testing.T) {
		key, err := store.Save(ctx, &photo.Upload{Filename: "evil.php", Content: strings.NewReader("x")})
		require.NoError(t, err)
		assert.False(t, strings.Contains(key, "."))
		assert.True(t, photo.ValidKey(key))
	})

	t.Run("PathTraversal_Rejected", func(t *testing.T) {
		_, err := store.Open(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, photo.ErrInvalidKey)

		err = store.Delete(ctx, "../config.yaml")
		assert.ErrorIs(t, err, photo.ErrInvalidKey)
	})

	t.Run("Delete_ThenMissing", func(t *testing.T) {
		key, err := store.Save(ctx, &photo.Upload{Filename: "a.png", Content: strings.NewReader("x")})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key))

		_, err = store.Open(ctx, key)
		assert.True(t, errors.Is(err, db.ErrNotFound))
	})
}

func TestHandler_Serve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := photo.NewMemoryStore()
	key, err := store.Save(context.Background(), &photo.Upload{Filename: "house.png", Content: strings.NewReader("png-bytes")})
	require.NoError(t, err)

	router := gin.New()
	web.LoadTemplates(router)
	photo.NewHandler(store, web.NewResponder(logger.Discard(), metrics.NewMock())).RegisterRoutes(router)

	t.Run("Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photos/"+key, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", w.Body.String())
	})

	t.Run("Missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photos/"+photo.NewKey("x.png"), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadKey", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photos/not-a-key", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
