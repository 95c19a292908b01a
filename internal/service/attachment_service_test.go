package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAttachmentServiceForTest(store storage.ObjectStorage, now time.Time) *attachmentService {
	return &attachmentService{
		store: store,
		now:   func() time.Time { return now },
	}
}

func TestIngestStoresAttachments(t *testing.T) {
	store := newMemStorage()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newAttachmentServiceForTest(store, now)

	email := &domain.InboundEmail{
		From:    "alice@example.com",
		Subject: "March receipts",
		Attachments: []domain.AttachmentPart{
			{Filename: "receipt.pdf", MimeType: "application/pdf", Content: []byte("pdf bytes")},
			{Filename: "photo.jpg", MimeType: "image/jpeg", Content: []byte("jpeg bytes")},
		},
	}

	stored, err := svc.Ingest(context.Background(), email)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored attachments, got %d", len(stored))
	}

	wantKey := "1709287200000-receipt.pdf"
	if stored[0].Key != wantKey {
		t.Errorf("expected key %q, got %q", wantKey, stored[0].Key)
	}

	obj, err := store.Get(context.Background(), wantKey)
	if err != nil {
		t.Fatalf("stored object missing: %v", err)
	}
	defer obj.Body.Close()
	if obj.Metadata.From != "alice@example.com" {
		t.Errorf("expected sender metadata, got %q", obj.Metadata.From)
	}
	if obj.Metadata.Subject != "March receipts" {
		t.Errorf("expected subject metadata, got %q", obj.Metadata.Subject)
	}
	if obj.Metadata.ReceivedAt != now.Format(time.RFC3339) {
		t.Errorf("expected receivedAt %q, got %q", now.Format(time.RFC3339), obj.Metadata.ReceivedAt)
	}
}

func TestIngestDefaults(t *testing.T) {
	store := newMemStorage()
	svc := newAttachmentServiceForTest(store, time.Now())

	email := &domain.InboundEmail{
		From: "bob@example.com",
		Attachments: []domain.AttachmentPart{
			{Filename: "mystery.bin", Content: []byte{0x00, 0x01}},
		},
	}

	stored, err := svc.Ingest(context.Background(), email)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	obj, err := store.Get(context.Background(), stored[0].Key)
	if err != nil {
		t.Fatalf("stored object missing: %v", err)
	}
	defer obj.Body.Close()
	if obj.Metadata.MimeType != "application/octet-stream" {
		t.Errorf("expected octet-stream fallback, got %q", obj.Metadata.MimeType)
	}
	if obj.Metadata.Subject != "(no subject)" {
		t.Errorf("expected subject placeholder, got %q", obj.Metadata.Subject)
	}
}

func TestIngestSkipsFilenamelessParts(t *testing.T) {
	store := newMemStorage()
	svc := newAttachmentServiceForTest(store, time.Now())

	email := &domain.InboundEmail{
		From: "carol@example.com",
		Attachments: []domain.AttachmentPart{
			{Filename: "", MimeType: "image/png", Content: []byte("inline blob")},
			{Filename: "kept.png", MimeType: "image/png", Content: []byte("real")},
		},
	}

	stored, err := svc.Ingest(context.Background(), email)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored attachment, got %d", len(stored))
	}
	if stored[0].Part.Filename != "kept.png" {
		t.Errorf("kept wrong part: %q", stored[0].Part.Filename)
	}
}

func TestIngestContinuesPastFailedPart(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := newMemStorage()
	store.putErr["1709287200000-bad.pdf"] = errors.New("backend refused")
	svc := newAttachmentServiceForTest(store, now)

	email := &domain.InboundEmail{
		From: "dave@example.com",
		Attachments: []domain.AttachmentPart{
			{Filename: "bad.pdf", MimeType: "application/pdf", Content: []byte("x")},
			{Filename: "good.pdf", MimeType: "application/pdf", Content: []byte("y")},
		},
	}

	stored, err := svc.Ingest(context.Background(), email)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected the good part stored, got %d", len(stored))
	}
	if stored[0].Part.Filename != "good.pdf" {
		t.Errorf("stored wrong part: %q", stored[0].Part.Filename)
	}
}

func TestIngestRejectsMissingSender(t *testing.T) {
	svc := newAttachmentServiceForTest(newMemStorage(), time.Now())

	if _, err := svc.Ingest(context.Background(), &domain.InboundEmail{}); err == nil {
		t.Fatal("expected error for email without sender")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newMemStorage()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store.objects["100-old.txt"] = memObject{content: []byte("a"), uploadedAt: base}
	store.objects["200-new.txt"] = memObject{content: []byte("b"), uploadedAt: base.Add(time.Hour)}

	svc := newAttachmentServiceForTest(store, time.Now())

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(infos))
	}
	if infos[0].Key != "200-new.txt" {
		t.Errorf("expected newest first, got %q", infos[0].Key)
	}
}

func TestListExcludesProofDocuments(t *testing.T) {
	store := newMemStorage()
	svc := newAttachmentServiceForTest(store, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	proofSvc := NewProofService(newFakeProofRepo(), store)

	if _, err := proofSvc.Upload(context.Background(), primitive.NewObjectID(), validProofInput()); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	email := &domain.InboundEmail{
		From:        "alice@example.com",
		Attachments: []domain.AttachmentPart{{Filename: "receipt.pdf", MimeType: "application/pdf", Content: []byte("x")}},
	}
	if _, err := svc.Ingest(context.Background(), email); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) != 1 {
		keys := make([]string, 0, len(infos))
		for _, info := range infos {
			keys = append(keys, info.Key)
		}
		t.Fatalf("expected 1 attachment, got %d: %v", len(infos), keys)
	}
	if infos[0].Key != "1709287200000-receipt.pdf" {
		t.Errorf("listed wrong object: %q", infos[0].Key)
	}
}

func TestIngestStripsFilenamePaths(t *testing.T) {
	store := newMemStorage()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newAttachmentServiceForTest(store, now)

	email := &domain.InboundEmail{
		From: "mallory@example.com",
		Attachments: []domain.AttachmentPart{
			{Filename: "proofs/fake.pdf", MimeType: "application/pdf", Content: []byte("x")},
		},
	}

	stored, err := svc.Ingest(context.Background(), email)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored attachment, got %d", len(stored))
	}
	if stored[0].Key != "1709287200000-fake.pdf" {
		t.Errorf("path not stripped from key: %q", stored[0].Key)
	}
}

func TestGetAndDelete(t *testing.T) {
	store := newMemStorage()
	svc := newAttachmentServiceForTest(store, time.Now())

	email := &domain.InboundEmail{
		From:        "erin@example.com",
		Attachments: []domain.AttachmentPart{{Filename: "doc.txt", MimeType: "text/plain", Content: []byte("hello")}},
	}
	stored, err := svc.Ingest(context.Background(), email)
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	key := stored[0].Key

	obj, err := svc.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	content, err := io.ReadAll(obj.Body)
	obj.Body.Close()
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("expected body %q, got %q", "hello", content)
	}

	if err := svc.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), key); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound after delete, got %v", err)
	}

	// Deleting again is still a success.
	if err := svc.Delete(context.Background(), key); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
}
