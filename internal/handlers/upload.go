package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/access"
	apierrors "github.com/crusher0311/maddenco-dvi-dashboard/internal/errors"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/ingest"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/middleware"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/repository"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/services"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/utils"
	"github.com/gin-gonic/gin"
)

// UploadHandler coordinates upload-related HTTP handlers.
type UploadHandler struct {
	importService *services.ImportService
	rows          repository.RowRepository
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(importService *services.ImportService, rows repository.RowRepository) *UploadHandler {
	return &UploadHandler{
		importService: importService,
		rows:          rows,
	}
}

// Preview parses the uploaded file and returns the first rows plus the
// detected column mapping for review before commit.
func (h *UploadHandler) Preview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A file upload is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	preview, err := h.importService.Preview(file, fileHeader.Filename)
	if err != nil {
		respondImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// Create ingests an uploaded file: multipart fields are the file, "org",
// "store_location", and an optional "mapping" JSON object of field-to-header
// overrides.
func (h *UploadHandler) Create(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A file upload is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	var overrides map[string]string
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			apierrors.BadRequest(c, "Invalid mapping: expected a JSON object of field to header")
			return
		}
	}

	result, err := h.importService.Import(id, services.ImportInput{
		Reader:        file,
		Filename:      fileHeader.Filename,
		Org:           c.PostForm("org"),
		StoreLocation: c.PostForm("store_location"),
		Overrides:     overrides,
	})
	if err != nil {
		respondImportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List returns upload history, newest first (admin only).
func (h *UploadHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	uploads, total, err := h.rows.ListUploads(params)
	if err != nil {
		apierrors.InternalError(c, "Failed to list uploads")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploads": uploads,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Delete removes an upload and all rows it produced (admin only).
func (h *UploadHandler) Delete(c *gin.Context) {
	uploadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid upload ID")
		return
	}

	if err := h.rows.DeleteUpload(uploadID); err != nil {
		if errors.Is(err, repository.ErrUploadNotFound) {
			apierrors.NotFound(c, "Upload not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload deleted",
	})
}

func respondImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrUploadDenied):
		apierrors.AccessDenied(c, err.Error())
	case errors.Is(err, services.ErrFileUnreadable),
		errors.Is(err, ingest.ErrUnsupportedFileType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to process upload")
	}
}
