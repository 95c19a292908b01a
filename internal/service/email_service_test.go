package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/mail"
)

func submissionSender() *domain.User {
	return &domain.User{
		Name:  "Ivy Sender",
		Email: "ivy@example.com",
	}
}

func TestSendAttachment(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, "attachments@vamotalent.com")

	err := svc.SendAttachment(context.Background(), submissionSender(), SendAttachmentInput{
		Subject: "Customer #4",
		Message: "Signed contract attached.",
		Attachment: &mail.Attachment{
			Filename: "contract.pdf",
			MimeType: "application/pdf",
			Content:  []byte("pdf"),
		},
	})
	if err != nil {
		t.Fatalf("SendAttachment returned error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.To != "attachments@vamotalent.com" {
		t.Errorf("sent to wrong inbox: %q", msg.To)
	}
	if msg.Subject != "[Fellowship] Customer #4" {
		t.Errorf("subject not prefixed: %q", msg.Subject)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "contract.pdf" {
		t.Errorf("attachment not carried: %+v", msg.Attachments)
	}
	if !strings.Contains(msg.HTML, "Ivy Sender") || !strings.Contains(msg.HTML, "ivy@example.com") {
		t.Error("body missing sender identity")
	}
	if !strings.Contains(msg.HTML, "Signed contract attached.") {
		t.Error("body missing message text")
	}
}

func TestSendAttachmentWithoutFile(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, "attachments@vamotalent.com")

	err := svc.SendAttachment(context.Background(), submissionSender(), SendAttachmentInput{
		Subject: "Just a note",
		Message: "No file this time.",
	})
	if err != nil {
		t.Fatalf("SendAttachment returned error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mailer.sent))
	}
	if len(mailer.sent[0].Attachments) != 0 {
		t.Errorf("unexpected attachments: %+v", mailer.sent[0].Attachments)
	}
}

func TestSendAttachmentRequiresSubject(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, "attachments@vamotalent.com")

	err := svc.SendAttachment(context.Background(), submissionSender(), SendAttachmentInput{Message: "no subject"})
	if !errors.Is(err, ErrSubjectRequired) {
		t.Fatalf("expected ErrSubjectRequired, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("message sent despite missing subject")
	}
}

func TestSendAttachmentPropagatesMailerFailure(t *testing.T) {
	mailer := &fakeMailer{sendErr: errors.New("sendgrid 500")}
	svc := NewEmailService(mailer, "attachments@vamotalent.com")

	err := svc.SendAttachment(context.Background(), submissionSender(), SendAttachmentInput{Subject: "Fails"})
	if err == nil {
		t.Fatal("expected mailer failure to propagate")
	}
}
