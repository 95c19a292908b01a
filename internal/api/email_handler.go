package api

import (
	"errors"
	"io"
	"net/http"

	"vamo/fellowship-app/internal/mail"
	"vamo/fellowship-app/internal/repository"
	"vamo/fellowship-app/internal/service"

	"github.com/gin-gonic/gin"
)

// EmailHandler lets participants mail a submission to the attachments inbox.
type EmailHandler struct {
	emailService service.EmailService
	userRepo     repository.UserRepository
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(emailService service.EmailService, userRepo repository.UserRepository) *EmailHandler {
	return &EmailHandler{emailService: emailService, userRepo: userRepo}
}

// SendAttachment forwards a multipart form {subject, message, attachment?}
// to the attachments inbox on behalf of the authenticated user.
func (h *EmailHandler) SendAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sender, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "User not found")
		return
	}

	input := service.SendAttachmentInput{
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
	}

	if fileHeader, err := c.FormFile("attachment"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to open uploaded file")
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file")
			return
		}
		mimeType := fileHeader.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		input.Attachment = &mail.Attachment{
			Filename: fileHeader.Filename,
			MimeType: mimeType,
			Content:  content,
		}
	}

	if err := h.emailService.SendAttachment(c.Request.Context(), sender, input); err != nil {
		if errors.Is(err, service.ErrSubjectRequired) {
			abortWithError(c, http.StatusBadRequest, "Subject is required")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to send email")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
