package mail

import (
	"errors"
	"strings"
	"testing"
)

const sampleEmail = "From: Alice Example <Alice@Example.com>\r\n" +
	"To: inbox@vamotalent.com\r\n" +
	"Subject: Receipt for March\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"frontier\"\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"Receipt attached.\r\n" +
	"--frontier\r\n" +
	"Content-Type: application/pdf; name=\"receipt.pdf\"\r\n" +
	"Content-Disposition: attachment; filename=\"receipt.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQK\r\n" +
	"--frontier--\r\n"

func TestParseInbound(t *testing.T) {
	email, err := ParseInbound([]byte(sampleEmail))
	if err != nil {
		t.Fatalf("ParseInbound returned error: %v", err)
	}
	if email.From != "alice@example.com" {
		t.Errorf("expected lowercased bare address, got %q", email.From)
	}
	if email.Subject != "Receipt for March" {
		t.Errorf("expected subject, got %q", email.Subject)
	}
	if len(email.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(email.Attachments))
	}
	att := email.Attachments[0]
	if att.Filename != "receipt.pdf" {
		t.Errorf("expected filename receipt.pdf, got %q", att.Filename)
	}
	if att.MimeType != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", att.MimeType)
	}
	if string(att.Content) != "%PDF-1.4\n" {
		t.Errorf("attachment content not decoded, got %q", att.Content)
	}
}

func TestParseInboundNoSender(t *testing.T) {
	raw := strings.Replace(sampleEmail, "From: Alice Example <Alice@Example.com>\r\n", "", 1)

	_, err := ParseInbound([]byte(raw))
	if !errors.Is(err, ErrMalformedEmail) {
		t.Fatalf("expected ErrMalformedEmail, got %v", err)
	}
}

func TestParseInboundGarbage(t *testing.T) {
	// enmime tolerates a lot; a payload with no headers at all still has no
	// sender and must be rejected.
	if _, err := ParseInbound([]byte("not an email")); !errors.Is(err, ErrMalformedEmail) {
		t.Fatalf("expected ErrMalformedEmail, got %v", err)
	}
}

func TestSenderAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bob <BOB@example.com>", "bob@example.com"},
		{"plain@example.com", "plain@example.com"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := senderAddress(tc.in); got != tc.want {
			t.Errorf("senderAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
