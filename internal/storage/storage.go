package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Error constants for the storage layer. Callers match with errors.Is.
var (
	ErrObjectNotFound     = errors.New("object not found in storage")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
)

// ObjectMetadata travels alongside each blob and is immutable after the
// write. For email attachments every field is set; for uploaded documents
// only Filename and MimeType are.
type ObjectMetadata struct {
	Filename   string
	MimeType   string
	From       string
	Subject    string
	ReceivedAt string // ISO-8601
}

// ObjectInfo describes a stored blob without its content.
type ObjectInfo struct {
	Key        string
	Size       int64
	UploadedAt time.Time
	Metadata   ObjectMetadata
}

// Object is a stored blob opened for reading. The caller owns Body and must
// close it.
type Object struct {
	Body     io.ReadCloser
	Size     int64
	Metadata ObjectMetadata
}

// ObjectStorage defines the interface for object storage operations.
type ObjectStorage interface {
	// Put writes content under key with its metadata. A second write to the
	// same key silently overwrites the first (last-writer-wins).
	Put(ctx context.Context, key string, body io.Reader, size int64, meta ObjectMetadata) error

	// Get opens the object stored under key, or fails with ErrObjectNotFound.
	Get(ctx context.Context, key string) (*Object, error)

	// List returns info for every object whose key starts with prefix, in
	// backend order. Callers sort.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
