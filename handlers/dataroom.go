package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filedrop/dataroom-backend/archive"
	"github.com/filedrop/dataroom-backend/auth/middleware"
	"github.com/filedrop/dataroom-backend/initializers"
	"github.com/filedrop/dataroom-backend/models"
	"github.com/filedrop/dataroom-backend/storage"
)

// getEndpoint resolves the :endpoint_id route param. An invalid or
// unknown id is a 404, never a hint that the id space exists.
func getEndpoint(c *gin.Context) (*models.DataEndpoint, bool) {
	id, err := uuid.Parse(c.Param("endpoint_id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		c.Abort()
		return nil, false
	}
	var endpoint models.DataEndpoint
	if err := initializers.DB.Preload("Customer").First(&endpoint, "id = ?", id).Error; err != nil {
		c.Status(http.StatusNotFound)
		c.Abort()
		return nil, false
	}
	return &endpoint, true
}

// getEndpointFile resolves :file_id scoped to the endpoint.
func getEndpointFile(c *gin.Context, endpoint *models.DataEndpoint) (*models.UploadedFile, bool) {
	fileID, err := strconv.ParseUint(c.Param("file_id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		c.Abort()
		return nil, false
	}
	var file models.UploadedFile
	err = initializers.DB.First(&file, "id = ? AND endpoint_id = ?", fileID, endpoint.ID).Error
	if err != nil {
		c.Status(http.StatusNotFound)
		c.Abort()
		return nil, false
	}
	return &file, true
}

// UploadPage renders the upload form and file list for an active
// endpoint, or the disabled/archived notice page.
func UploadPage(c *gin.Context) {
	endpoint, ok := getEndpoint(c)
	if !ok {
		return
	}

	switch endpoint.UploadBlock() {
	case models.StatusDisabled:
		c.HTML(http.StatusOK, "upload_disabled.html", gin.H{"endpoint": endpoint})
		return
	case models.StatusArchived:
		c.HTML(http.StatusOK, "upload_archived.html", gin.H{"endpoint": endpoint})
		return
	}

	files, err := models.ActiveFiles(initializers.DB, endpoint.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load files")
		return
	}

	session := sessions.Default(c)
	flashes := session.Flashes()
	session.Save()

	c.HTML(http.StatusOK, "upload_page.html", gin.H{
		"endpoint":     endpoint,
		"customerName": endpoint.Customer.Name,
		"files":        files,
		"flashes":      flashes,
	})
}

// AjaxUpload accepts a single multipart file field named "file" and
// creates the ledger row only after the disk write fully completed.
func AjaxUpload(c *gin.Context) {
	endpoint, ok := getEndpoint(c)
	if !ok {
		return
	}

	switch endpoint.UploadBlock() {
	case models.StatusDisabled:
		c.JSON(http.StatusForbidden, gin.H{"error": "This upload endpoint is disabled."})
		return
	case models.StatusArchived:
		c.JSON(http.StatusForbidden, gin.H{"error": "This upload endpoint is archived."})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file was uploaded."})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file."})
		return
	}

	cleanName := storage.Sanitize(fileHeader.Filename)
	relPath, finalName, err := storage.AllocateUniquePath(
		initializers.Store.Root, endpoint.ID.String(), cleanName)
	if err != nil {
		uploadError(c, relPath, err)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		uploadError(c, relPath, err)
		return
	}
	written, err := initializers.Store.Write(relPath, src)
	src.Close()
	if err != nil {
		uploadError(c, relPath, err)
		return
	}

	record := models.UploadedFile{
		EndpointID:    endpoint.ID,
		Filename:      finalName,
		FilePath:      relPath,
		FileSizeBytes: written,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		UploadedAt:    time.Now(),
		UploadedByIP:  ClientIP(c.Request),
	}
	if err := initializers.DB.Create(&record).Error; err != nil {
		uploadError(c, relPath, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file": gin.H{
			"id":          record.ID,
			"filename":    record.Filename,
			"size":        record.FileSizeBytes,
			"uploaded_at": record.UploadedAt.Format(time.RFC3339),
		},
	})
}

// uploadError removes any partially written file before responding.
func uploadError(c *gin.Context, relPath string, err error) {
	if relPath != "" {
		initializers.Store.Remove(relPath)
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": fmt.Sprintf("Error uploading file: %s", err),
	})
}

// DeleteFile soft-deletes a file and redirects back to the upload
// page. Repeats are a no-op with an informational flash.
func DeleteFile(c *gin.Context) {
	endpoint, ok := getEndpoint(c)
	if !ok {
		return
	}
	file, ok := getEndpointFile(c, endpoint)
	if !ok {
		return
	}

	session := sessions.Default(c)
	_, err := models.SoftDeleteFile(initializers.DB, file.ID, ClientIP(c.Request))
	switch {
	case errors.Is(err, models.ErrAlreadyDeleted):
		session.AddFlash("File is already deleted.")
	case err != nil:
		session.AddFlash("Failed to delete file.")
	default:
		session.AddFlash(fmt.Sprintf("File '%s' has been deleted.", file.Filename))
	}
	session.Save()

	c.Redirect(http.StatusFound, endpoint.UploadURL())
}

// DownloadEndpointZip streams all active files of an endpoint as one
// zip. Staff only, enforced by route middleware.
func DownloadEndpointZip(c *gin.Context) {
	endpoint, ok := getEndpoint(c)
	if !ok {
		return
	}

	var actor *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		actor = &user.ID
	}

	result, err := archive.BuildZip(
		initializers.DB, initializers.Store, endpoint, actor, ClientIP(c.Request))
	if errors.Is(err, archive.ErrNoFiles) {
		session := sessions.Default(c)
		session.AddFlash("No files available to download.")
		session.Save()
		c.Redirect(http.StatusFound, endpoint.UploadURL())
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build archive")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Content-Length", strconv.Itoa(len(result.Data)))
	c.Data(http.StatusOK, "application/zip", result.Data)
}

// DownloadFile serves one file as an attachment and appends a
// FileDownload audit row. Staff only, enforced by route middleware.
// Soft-deleted files and ledger rows with no disk object are 404s.
func DownloadFile(c *gin.Context) {
	endpoint, ok := getEndpoint(c)
	if !ok {
		return
	}
	file, ok := getEndpointFile(c, endpoint)
	if !ok {
		return
	}
	if file.IsDeleted() {
		c.Status(http.StatusNotFound)
		return
	}

	src, err := initializers.Store.Open(file.FilePath)
	if errors.Is(err, storage.ErrNotFound) {
		c.String(http.StatusNotFound, "File not found: %s", file.Filename)
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer src.Close()

	var actor *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		actor = &user.ID
	}
	if err := models.RecordFileDownload(initializers.DB, file.ID, actor, ClientIP(c.Request)); err != nil {
		c.String(http.StatusInternalServerError, "Failed to record download")
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, file.FileSizeBytes, contentType, src, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Filename),
	})
}
