package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tubeworks/streamapi/internal/constants"
	"github.com/tubeworks/streamapi/pkg/logger"
)

// errMalformedForm marks multipart bodies the server could not parse, as
// opposed to a field that simply was not sent.
var errMalformedForm = errors.New("malformed multipart form")

// stagedFile is a multipart upload written to local disk so it can be
// probed and streamed to the object store. Remove must run regardless of
// what happens afterwards.
type stagedFile struct {
	Path string
}

func (f *stagedFile) Remove(ctx context.Context) {
	if f == nil || f.Path == "" {
		return
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		logger.WarnWithContext(ctx, "Failed to remove staged upload").
			String("path", f.Path).
			Err(err).
			Log()
	}
}

// stageFormFile saves the named multipart field into tempDir under a
// random name. A missing field returns (nil, nil) so callers can treat
// optional fields uniformly; any other form error is a client error and
// comes back wrapped in errMalformedForm.
func stageFormFile(c *gin.Context, field, tempDir string) (*stagedFile, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", errMalformedForm, field, err)
	}
	return stageFileHeader(c, fileHeader, tempDir)
}

// respondStageError answers a failed stageFormFile call: a form the client
// sent broken is a 400, anything else is on us.
func respondStageError(c *gin.Context, err error) {
	if errors.Is(err, errMalformedForm) {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(http.StatusInternalServerError, constants.MsgInternalError))
}

func stageFileHeader(c *gin.Context, fileHeader *multipart.FileHeader, tempDir string) (*stagedFile, error) {
	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	path := filepath.Join(tempDir, name)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		return nil, err
	}
	return &stagedFile{Path: path}, nil
}
