package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/service"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type UploadHandler struct {
	uploads UploadService
}

func NewUploadHandler(uploads UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload stores the multipart field "file" and returns its URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadBytes+1<<20)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	defer file.Close()

	res, err := h.uploads.Upload(c.Request.Context(), middleware.CurrentUser(c), header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "File uploaded", res)
}
