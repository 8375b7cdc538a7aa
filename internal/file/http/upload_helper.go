package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/reservation-backend/internal/auth"
	"github.com/opencampus/reservation-backend/internal/file"
)

// FileUploadConfig defines per-route constraints for a file upload.
type FileUploadConfig struct {
	FormFieldName string   // form field holding the file (default "file")
	MaxSizeBytes  int64    // 0 = no limit
	AllowedTypes  []string // allowed MIME types, empty = allow all
	// AfterUpload links the stored file to its owning entity. If it fails,
	// the uploaded file is deleted again.
	AfterUpload func(ctx context.Context, fileID string) error
}

// HandleFileUpload is the shared upload path used by entity-photo routes.
func (h *Handler) HandleFileUpload(c *gin.Context, config FileUploadConfig) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldName + " is required"})
		return
	}

	f, err := h.fileService.Upload(c.Request.Context(), file.UploadInput{
		FileHeader:   fileHeader,
		UserID:       userID,
		MaxSizeBytes: config.MaxSizeBytes,
		AllowedTypes: config.AllowedTypes,
	})
	if err != nil {
		if errors.Is(err, file.ErrTooLarge) || errors.Is(err, file.ErrBadType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		return
	}

	if config.AfterUpload != nil {
		if err := config.AfterUpload(c.Request.Context(), f.ID); err != nil {
			// Roll the upload back so the blob does not dangle.
			_ = h.fileService.Delete(c.Request.Context(), f.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach uploaded file"})
			return
		}
	}

	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}

	c.JSON(http.StatusOK, FileUploadResponse{
		Message:      "file uploaded successfully",
		FileID:       f.ID,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
	})
}
