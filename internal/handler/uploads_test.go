package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartContext(t *testing.T, build func(w *multipart.Writer)) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	build(mw)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestStageFormFile_SavesUpload(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		part, err := w.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	})

	staged, err := stageFormFile(c, "avatar", t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, staged)

	content, err := os.ReadFile(staged.Path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	staged.Remove(context.Background())
	_, err = os.Stat(staged.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestStageFormFile_AbsentFieldIsNotAnError(t *testing.T) {
	c := multipartContext(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("title", "hello"))
	})

	staged, err := stageFormFile(c, "avatar", t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, staged)
}

func TestStageFormFile_MalformedForm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// A multipart content type without a boundary cannot be parsed; that
	// is a client error, not a missing field.
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("not a form"))
	req.Header.Set("Content-Type", "multipart/form-data")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	staged, err := stageFormFile(c, "avatar", t.TempDir())
	require.Error(t, err)
	assert.Nil(t, staged)
	assert.ErrorIs(t, err, errMalformedForm)
}

func TestRespondStageError_StatusByCause(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondStageError(c, errMalformedForm)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondStageError(c, os.ErrPermission)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
