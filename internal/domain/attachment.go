package domain

// AttachmentPart is one decoded MIME part of an inbound email. Parts with an
// empty Filename are ignored by the attachment store.
type AttachmentPart struct {
	Filename string
	MimeType string
	Content  []byte
}

// InboundEmail is the parsed form of an email delivered to the ingestion
// webhook, reduced to the fields the attachment store cares about.
type InboundEmail struct {
	From        string
	Subject     string
	Attachments []AttachmentPart
}

// HasAttachments reports whether at least one part carries a filename.
func (e *InboundEmail) HasAttachments() bool {
	for _, a := range e.Attachments {
		if a.Filename != "" {
			return true
		}
	}
	return false
}
