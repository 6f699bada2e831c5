// Package photo stores listing photos under generated keys.
//
// Keys never reuse the client's filename, so two uploads called "room.jpg"
// land in different objects. Only the extension survives, and only when it is
// a known image type.
package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Mukungiisaac/Sakeja/internal/db"

	"github.com/google/uuid"
)

var (
	ErrPhotoNotFound = fmt.Errorf("photo %w", db.ErrNotFound)
	ErrInvalidKey    = fmt.Errorf("invalid photo key")
)

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload is a photo received from a form.
type Upload struct {
	Filename string
	Content  io.Reader

	closer io.Closer
}

// Close releases the underlying form file, if any.
func (u *Upload) Close() error {
	if u == nil || u.closer == nil {
		return nil
	}
	return u.closer.Close()
}

type Store interface {
	// Save writes the upload and returns its storage key.
	Save(ctx context.Context, u *Upload) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh storage key for a client filename.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if _, ok := allowedExt[ext]; !ok {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ValidKey rejects anything that is not a bare key produced by NewKey.
func ValidKey(key string) bool {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) {
		return false
	}
	id := strings.TrimSuffix(key, filepath.Ext(key))
	_, err := uuid.Parse(id)
	return err == nil
}

// ContentType guesses the MIME type from the key's extension.
func ContentType(key string) string {
	if ct, ok := allowedExt[strings.ToLower(filepath.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Discard deletes keys, logging failures instead of returning them. Used once
// the rows referencing the photos are already gone.
func Discard(ctx context.Context, store Store, logger *slog.Logger, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "failed to delete photo", "key", key, "error", err)
		}
	}
}
