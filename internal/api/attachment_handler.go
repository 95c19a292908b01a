package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"vamo/fellowship-app/internal/mail"
	"vamo/fellowship-app/internal/service"
	"vamo/fellowship-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// AttachmentHandler exposes the attachment store: the inbound email webhook
// plus list/fetch/delete.
type AttachmentHandler struct {
	attachmentService service.AttachmentService
	photoService      service.PhotoService
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachmentService service.AttachmentService, photoService service.PhotoService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		photoService:      photoService,
	}
}

// --- DTOs ---

// AttachmentResponse is one row of the attachment listing.
type AttachmentResponse struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
}

func mapObjectInfoToResponse(info storage.ObjectInfo) AttachmentResponse {
	resp := AttachmentResponse{
		Key:        info.Key,
		Size:       info.Size,
		UploadedAt: info.UploadedAt,
		Filename:   info.Metadata.Filename,
		MimeType:   info.Metadata.MimeType,
		From:       info.Metadata.From,
		Subject:    info.Metadata.Subject,
	}
	// Fall back the way the dashboard always has: key for a missing
	// filename, octet-stream for a missing type.
	if resp.Filename == "" {
		resp.Filename = info.Key
	}
	if resp.MimeType == "" {
		resp.MimeType = "application/octet-stream"
	}
	if resp.From == "" {
		resp.From = "unknown"
	}
	return resp
}

// --- Handler Methods ---

// IngestEmail receives an inbound email webhook. The raw MIME message
// arrives either as the request body or as the "email" field of a
// multipart form (SendGrid/Mailgun inbound-parse style). All
// filename-bearing attachments land in the store; image attachments from
// registered senders additionally become photos.
func (h *AttachmentHandler) IngestEmail(c *gin.Context) {
	raw, ok := h.rawEmailFromRequest(c)
	if !ok {
		return
	}

	email, err := mail.ParseInbound(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Malformed email payload: %v", err))
		return
	}

	stored, err := h.attachmentService.Ingest(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	photos, err := h.photoService.IngestFromEmail(c.Request.Context(), email, stored)
	if err != nil {
		// Attachments are already durable; report the partial outcome.
		c.JSON(http.StatusOK, gin.H{
			"message":     fmt.Sprintf("Stored %d attachment(s); photo records failed", len(stored)),
			"attachments": len(stored),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Stored %d attachment(s), recorded %d photo(s)", len(stored), len(photos)),
		"attachments": len(stored),
		"photos":      len(photos),
	})
}

func (h *AttachmentHandler) rawEmailFromRequest(c *gin.Context) ([]byte, bool) {
	contentType := c.ContentType()
	if contentType == "multipart/form-data" || contentType == "application/x-www-form-urlencoded" {
		for _, field := range []string{"email", "body-mime"} {
			if value := c.PostForm(field); value != "" {
				return []byte(value), true
			}
			if file, err := c.FormFile(field); err == nil {
				f, err := file.Open()
				if err != nil {
					abortWithError(c, http.StatusBadRequest, "Could not read email payload")
					return nil, false
				}
				defer f.Close()
				raw, err := io.ReadAll(f)
				if err != nil {
					abortWithError(c, http.StatusBadRequest, "Could not read email payload")
					return nil, false
				}
				return raw, true
			}
		}
		abortWithError(c, http.StatusBadRequest, "No email data")
		return nil, false
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		abortWithError(c, http.StatusBadRequest, "No email data")
		return nil, false
	}
	return raw, true
}

// ListAttachments returns every stored attachment, newest first.
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	infos, err := h.attachmentService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "Attachment storage is unavailable")
		return
	}

	responses := make([]AttachmentResponse, 0, len(infos))
	for _, info := range infos {
		responses = append(responses, mapObjectInfoToResponse(info))
	}
	c.JSON(http.StatusOK, responses)
}

// GetAttachment streams one attachment's content. With ?download=1 the
// response carries an attachment disposition so browsers save instead of
// render; the content itself is unchanged.
func (h *AttachmentHandler) GetAttachment(c *gin.Context) {
	key := c.Param("key")

	obj, err := h.attachmentService.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			abortWithError(c, http.StatusNotFound, "Attachment not found")
		} else {
			abortWithError(c, http.StatusServiceUnavailable, "Attachment storage is unavailable")
		}
		return
	}
	defer obj.Body.Close()

	contentType := obj.Metadata.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	extraHeaders := map[string]string{}
	if _, forceDownload := c.GetQuery("download"); forceDownload {
		filename := obj.Metadata.Filename
		if filename == "" {
			filename = key
		}
		extraHeaders["Content-Disposition"] = fmt.Sprintf("attachment; filename=%q", filename)
	}

	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, extraHeaders)
}

// DeleteAttachment removes an attachment. Deleting a missing key reports
// success; deletion is fire-and-forget.
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	key := c.Param("key")

	if err := h.attachmentService.Delete(c.Request.Context(), key); err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "Attachment storage is unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
