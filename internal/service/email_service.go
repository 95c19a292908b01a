package service

import (
	"context"
	"errors"
	"log"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/mail"
)

// ErrSubjectRequired rejects submissions without a subject line.
var ErrSubjectRequired = errors.New("subject is required")

// SendAttachmentInput is a user-composed submission for the attachments
// inbox. The attachment is optional; a plain message is also valid.
type SendAttachmentInput struct {
	Subject    string
	Message    string
	Attachment *mail.Attachment
}

// EmailService forwards participant submissions to the shared attachments
// inbox. The mail provider delivers them back through the inbound webhook,
// so a submission sent here lands in the attachment store like any other
// email.
type EmailService interface {
	SendAttachment(ctx context.Context, sender *domain.User, input SendAttachmentInput) error
}

// emailService implements the EmailService interface.
type emailService struct {
	mailer       mail.Mailer
	inboxAddress string
}

// NewEmailService creates a new instance of emailService.
func NewEmailService(mailer mail.Mailer, inboxAddress string) EmailService {
	return &emailService{
		mailer:       mailer,
		inboxAddress: inboxAddress,
	}
}

// SendAttachment mails the submission to the attachments inbox. Unlike
// note notifications this send is user-initiated, so a provider failure is
// reported to the caller instead of being swallowed.
func (s *emailService) SendAttachment(ctx context.Context, sender *domain.User, input SendAttachmentInput) error {
	if input.Subject == "" {
		return ErrSubjectRequired
	}

	senderName := sender.Name
	if senderName == "" {
		senderName = sender.Email
	}

	msg, err := mail.ProofSubmissionMessage(s.inboxAddress, input.Subject, senderName, sender.Email, input.Message, input.Attachment)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("ERROR: Failed to forward submission from %s to %s: %v", sender.Email, s.inboxAddress, err)
		return err
	}

	log.Printf("INFO: Forwarded submission %q from %s to %s", input.Subject, sender.Email, s.inboxAddress)
	return nil
}
