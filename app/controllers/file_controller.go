package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/ctx"
	"github.com/projectdesk/projectdesk/pkg/logger"
)

// multipartOverhead is allowed on top of the file size for the form
// boundaries and headers.
const multipartOverhead = 1 << 20

type FileController struct {
	files    *services.FileService
	maxBytes int64
}

func NewFileController(files *services.FileService, maxBytes int64) *FileController {
	return &FileController{files: files, maxBytes: maxBytes}
}

// Upload stores the multipart field "file" for project {id}.
func (h *FileController) Upload(c *ctx.Context) {
	projectID, ok := c.ParamInt("id")
	if !ok {
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, h.maxBytes+multipartOverhead)
	if err := c.R.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d byte limit", h.maxBytes))
			return
		}
		c.Error(http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer c.R.MultipartForm.RemoveAll() //nolint:errcheck

	files := c.R.MultipartForm.File["file"]
	if len(files) == 0 {
		c.ValidationError(map[string]string{"file": "file is required"})
		return
	}

	rec, err := h.files.Upload(c.Context(), projectID, files[0])
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(rec)
}

func (h *FileController) ByProject(c *ctx.Context) {
	listBy(c, "projectId", h.files.ByProject)
}

// Download streams the file under its original name.
func (h *FileController) Download(c *ctx.Context) {
	id, ok := c.ParamInt("fileId")
	if !ok {
		return
	}
	rec, rc, err := h.files.Open(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	defer rc.Close()

	name, _ := rec["originalName"].(string)
	contentType, _ := rec["mimeType"].(string)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.SetHeader("Content-Type", contentType)
	c.SetHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if size, ok := rec["fileSize"].(int64); ok {
		c.SetHeader("Content-Length", strconv.FormatInt(size, 10))
	}
	c.W.WriteHeader(http.StatusOK)

	if _, err := io.Copy(c.W, rc); err != nil {
		logger.WithCtx(c.Context()).Warn("download interrupted", "file_id", id, "error", err)
	}
}

func (h *FileController) Destroy(c *ctx.Context) {
	destroy(c, "id", "File deleted", h.files.Delete)
}
