package mail

import (
	"bytes"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	"vamo/fellowship-app/internal/domain"

	"github.com/jhillyerd/enmime"
)

// ErrMalformedEmail indicates an inbound payload that could not be parsed
// or that carries no usable sender address.
var ErrMalformedEmail = errors.New("malformed inbound email")

// ParseInbound decodes a raw RFC 5322 message (as delivered by inbound-parse
// webhooks such as SendGrid's or Mailgun's) into the flat shape the
// attachment store consumes. Inline images count as attachments; parts
// without a filename are carried through and skipped later at ingest.
func ParseInbound(raw []byte) (*domain.InboundEmail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEmail, err)
	}

	from := senderAddress(env.GetHeader("From"))
	if from == "" {
		return nil, fmt.Errorf("%w: no sender address", ErrMalformedEmail)
	}

	email := &domain.InboundEmail{
		From:    from,
		Subject: env.GetHeader("Subject"),
	}

	for _, part := range append(env.Attachments, env.Inlines...) {
		if len(part.Content) == 0 {
			continue
		}
		email.Attachments = append(email.Attachments, domain.AttachmentPart{
			Filename: part.FileName,
			MimeType: part.ContentType,
			Content:  part.Content,
		})
	}

	return email, nil
}

// senderAddress extracts the bare address from a From header, falling back
// to the raw value when it is not RFC-parseable.
func senderAddress(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	addr, err := netmail.ParseAddress(header)
	if err != nil {
		return strings.ToLower(header)
	}
	return strings.ToLower(addr.Address)
}
