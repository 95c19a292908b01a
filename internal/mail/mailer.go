// Package mail covers both email directions: sending notification messages
// to note subscribers, and parsing inbound emails delivered by the
// attachment webhook.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Attachment is a file carried by an outbound email.
type Attachment struct {
	Filename string
	MimeType string
	Content  []byte
}

// Message is a single outbound email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer is any service that can send a notification email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// --- SendGrid implementation ---

type sendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendgridMailer creates a Mailer backed by the SendGrid API.
func NewSendgridMailer(apiKey, fromName, fromAddress string) Mailer {
	return &sendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail("", msg.To)
	email := sgmail.NewSingleEmail(m.from, msg.Subject, to, "", msg.HTML)

	for _, att := range msg.Attachments {
		sgAtt := sgmail.NewAttachment()
		sgAtt.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		sgAtt.SetType(att.MimeType)
		sgAtt.SetFilename(att.Filename)
		sgAtt.SetDisposition("attachment")
		email.AddAttachment(sgAtt)
	}

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message to %s: status %d", msg.To, resp.StatusCode)
	}
	return nil
}

// --- Console implementation ---

// consoleMailer logs instead of sending. Used in development and whenever
// no SendGrid API key is configured.
type consoleMailer struct{}

func NewConsoleMailer() Mailer {
	return consoleMailer{}
}

func (consoleMailer) Send(_ context.Context, msg Message) error {
	log.Printf("INFO: [mail] to=%s subject=%q attachments=%d (console mailer, not sent)", msg.To, msg.Subject, len(msg.Attachments))
	return nil
}
