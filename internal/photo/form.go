package photo

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FromForm opens the uploaded file in field. It returns nil when the form
// carries no file. Callers must Close the upload.
func FromForm(c *gin.Context, field string) (*Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Filename == "" || fh.Size == 0 {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &Upload{Filename: fh.Filename, Content: f, closer: f}, nil
}
