package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// noteUpdateTemplate mirrors the layout the app has always sent; content is
// escaped through html/template.
var noteUpdateTemplate = template.Must(template.New("noteUpdate").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Note {{.Action}}</h2>
  <h3 style="color: #555;">{{.Title}}</h3>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p style="white-space: pre-wrap; color: #333;">{{.Content}}</p>
  </div>
  <p style="color: #777; font-size: 12px;">
    This is an automated notification from Vamo Fellowship App.
  </p>
</div>`))

// proofSubmissionTemplate wraps a user-composed submission forwarded to the
// shared attachments inbox.
var proofSubmissionTemplate = template.Must(template.New("proofSubmission").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Social Proof Submission</h2>
  <p><strong>From:</strong> {{.SenderName}}</p>
  <p><strong>Email:</strong> {{.SenderEmail}}</p>
  {{if .Body}}
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p style="white-space: pre-wrap; color: #333;">{{.Body}}</p>
  </div>
  {{end}}
  {{if .AttachmentName}}<p><strong>Attachment:</strong> {{.AttachmentName}}</p>{{end}}
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="color: #777; font-size: 12px;">
    Submitted via Vamo Fellowship App
  </p>
</div>`))

// ProofSubmissionMessage builds the email a participant sends to the
// attachments inbox. The attachment, when present, rides along unchanged.
func ProofSubmissionMessage(to, subject, senderName, senderEmail, body string, attachment *Attachment) (Message, error) {
	attachmentName := ""
	if attachment != nil {
		attachmentName = attachment.Filename
	}

	var html bytes.Buffer
	err := proofSubmissionTemplate.Execute(&html, struct {
		SenderName     string
		SenderEmail    string
		Body           string
		AttachmentName string
	}{senderName, senderEmail, body, attachmentName})
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		To:      to,
		Subject: fmt.Sprintf("[Fellowship] %s", subject),
		HTML:    html.String(),
	}
	if attachment != nil {
		msg.Attachments = []Attachment{*attachment}
	}
	return msg, nil
}

// NoteUpdateMessage builds the notification sent to a note subscriber when
// a note is created or updated.
func NoteUpdateMessage(to, title, content string, created bool) (Message, error) {
	action := "Updated"
	if created {
		action = "Created"
	}

	var body bytes.Buffer
	err := noteUpdateTemplate.Execute(&body, struct {
		Action  string
		Title   string
		Content string
	}{action, title, content})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Note %s: %s", action, title),
		HTML:    body.String(),
	}, nil
}
