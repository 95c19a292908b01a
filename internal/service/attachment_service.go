package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/storage"
)

// storageOpTimeout bounds every call against the blob backend; a slow
// backend surfaces as storage.ErrStorageUnavailable instead of hanging the
// request.
const storageOpTimeout = 15 * time.Second

// StoredAttachment records where one email attachment ended up.
type StoredAttachment struct {
	Key  string
	Part domain.AttachmentPart
}

// AttachmentService is the email-to-blob-store facade: one ingestion
// trigger and three request-style query operations.
type AttachmentService interface {
	// Ingest writes every filename-bearing attachment of an inbound email
	// to the blob store. A failed part is logged and skipped; the rest of
	// the email is still processed.
	Ingest(ctx context.Context, email *domain.InboundEmail) ([]StoredAttachment, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
	Get(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

// attachmentService implements the AttachmentService interface.
type attachmentService struct {
	store storage.ObjectStorage
	now   func() time.Time // injectable for tests
}

// NewAttachmentService creates a new instance of attachmentService.
func NewAttachmentService(store storage.ObjectStorage) AttachmentService {
	return &attachmentService{
		store: store,
		now:   time.Now,
	}
}

// Ingest stores each attachment under "{unixMillis}-{filename}". Two emails
// landing in the same millisecond with identically named attachments
// overwrite each other (last-writer-wins); accepted limitation of the key
// scheme rather than a guarantee.
func (s *attachmentService) Ingest(ctx context.Context, email *domain.InboundEmail) ([]StoredAttachment, error) {
	if email == nil || email.From == "" {
		return nil, fmt.Errorf("inbound email has no sender")
	}

	now := s.now()
	receivedAt := now.UTC().Format(time.RFC3339)

	subject := email.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	var stored []StoredAttachment
	for _, part := range email.Attachments {
		if part.Filename == "" {
			continue // silently skipped, not an error
		}

		// Slashes would push the object into another subsystem's key space
		// and make it unreachable through the key-addressed routes.
		filename := path.Base(part.Filename)
		if filename == "." || filename == "/" {
			continue
		}

		key := fmt.Sprintf("%d-%s", now.UnixMilli(), filename)
		mimeType := part.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		meta := storage.ObjectMetadata{
			Filename:   filename,
			MimeType:   mimeType,
			From:       email.From,
			Subject:    subject,
			ReceivedAt: receivedAt,
		}

		opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
		err := s.store.Put(opCtx, key, bytes.NewReader(part.Content), int64(len(part.Content)), meta)
		cancel()
		if err != nil {
			// One bad part must not abort the remaining attachments.
			log.Printf("ERROR: Failed to store attachment '%s' from %s: %v", part.Filename, email.From, err)
			continue
		}

		stored = append(stored, StoredAttachment{Key: key, Part: part})
	}

	return stored, nil
}

// List returns every stored attachment, newest first. The bucket is shared
// with other subsystems that keep their objects under a path prefix (payment
// documents live under "proofs/"); attachment keys never contain a slash, so
// prefixed objects are excluded here.
func (s *attachmentService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()

	infos, err := s.store.List(opCtx, "")
	if err != nil {
		return nil, err
	}

	attachments := make([]storage.ObjectInfo, 0, len(infos))
	for _, info := range infos {
		if strings.Contains(info.Key, "/") {
			continue
		}
		attachments = append(attachments, info)
	}

	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].UploadedAt.After(attachments[j].UploadedAt)
	})
	return attachments, nil
}

// Get opens a stored attachment, or fails with storage.ErrObjectNotFound.
// The timeout context must survive until the caller finishes streaming the
// body, so its cancel is tied to Body.Close rather than to this call.
func (s *attachmentService) Get(ctx context.Context, key string) (*storage.Object, error) {
	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)

	obj, err := s.store.Get(opCtx, key)
	if err != nil {
		cancel()
		return nil, err
	}

	obj.Body = &cancelOnClose{ReadCloser: obj.Body, cancel: cancel}
	return obj, nil
}

// cancelOnClose releases the operation context when the object body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

// Delete removes a stored attachment. Deleting a missing key succeeds;
// deletion is fire-and-forget.
func (s *attachmentService) Delete(ctx context.Context, key string) error {
	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()
	return s.store.Delete(opCtx, key)
}
