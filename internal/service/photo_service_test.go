package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vamo/fellowship-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIngestFromEmail(t *testing.T) {
	user := activeUser("sender@example.com", time.Now())
	userRepo := newFakeUserRepo(user)
	photoRepo := newFakePhotoRepo()
	svc := NewPhotoService(photoRepo, userRepo, newMemStorage())

	email := &domain.InboundEmail{
		From:    "sender@example.com",
		Subject: "Day 40 progress",
	}
	stored := []StoredAttachment{
		{Key: "100-shot.jpg", Part: domain.AttachmentPart{Filename: "shot.jpg", MimeType: "image/jpeg"}},
		{Key: "100-notes.pdf", Part: domain.AttachmentPart{Filename: "notes.pdf", MimeType: "application/pdf"}},
	}

	photos, err := svc.IngestFromEmail(context.Background(), email, stored)
	if err != nil {
		t.Fatalf("IngestFromEmail returned error: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo (images only), got %d", len(photos))
	}
	if photos[0].ObjectKey != "100-shot.jpg" {
		t.Errorf("photo references wrong object: %s", photos[0].ObjectKey)
	}
	if photos[0].Caption != "Day 40 progress" {
		t.Errorf("expected subject as caption, got %q", photos[0].Caption)
	}
	if photos[0].Source != domain.PhotoSourceEmail {
		t.Errorf("expected email source, got %s", photos[0].Source)
	}
}

func TestIngestFromEmailUnknownSender(t *testing.T) {
	svc := NewPhotoService(newFakePhotoRepo(), newFakeUserRepo(), newMemStorage())

	email := &domain.InboundEmail{From: "stranger@example.com"}
	stored := []StoredAttachment{
		{Key: "100-pic.png", Part: domain.AttachmentPart{Filename: "pic.png", MimeType: "image/png"}},
	}

	photos, err := svc.IngestFromEmail(context.Background(), email, stored)
	if err != nil {
		t.Fatalf("IngestFromEmail returned error: %v", err)
	}
	if photos != nil {
		t.Fatalf("expected no photos for unknown sender, got %d", len(photos))
	}
}

func TestPhotoDelete(t *testing.T) {
	user := activeUser("owner@example.com", time.Now())
	userRepo := newFakeUserRepo(user)
	photoRepo := newFakePhotoRepo()
	store := newMemStorage()
	store.objects["100-mine.jpg"] = memObject{content: []byte("jpeg")}

	svc := NewPhotoService(photoRepo, userRepo, store)

	photoID, err := photoRepo.Create(context.Background(), &domain.Photo{
		UserID:    user.ID,
		Filename:  "mine.jpg",
		ObjectKey: "100-mine.jpg",
		Source:    domain.PhotoSourceEmail,
	})
	if err != nil {
		t.Fatalf("seeding photo: %v", err)
	}

	t.Run("other users cannot delete", func(t *testing.T) {
		err := svc.Delete(context.Background(), photoID, primitive.NewObjectID())
		if !errors.Is(err, ErrPhotoNotFound) {
			t.Fatalf("expected ErrPhotoNotFound for non-owner, got %v", err)
		}
	})

	t.Run("owner delete removes record and blob", func(t *testing.T) {
		if err := svc.Delete(context.Background(), photoID, user.ID); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if _, err := photoRepo.GetByID(context.Background(), photoID); err == nil {
			t.Error("photo record still present after delete")
		}
		if _, ok := store.objects["100-mine.jpg"]; ok {
			t.Error("blob still present after delete")
		}
	})
}
