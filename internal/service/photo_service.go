package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/repository"
	"vamo/fellowship-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPhotoNotFound = errors.New("photo not found")

// PhotoDetails is a photo plus a temporary URL to view it.
type PhotoDetails struct {
	domain.Photo
	URL string `json:"url,omitempty"`
}

// PhotoService manages progress photos. New photos arrive through the email
// webhook; the image bytes are already in the blob store by the time
// IngestFromEmail runs.
type PhotoService interface {
	// IngestFromEmail records image attachments of an inbound email as
	// photos for the registered sender. Unknown senders are skipped without
	// error, matching the webhook's tolerance for stray mail.
	IngestFromEmail(ctx context.Context, email *domain.InboundEmail, stored []StoredAttachment) ([]domain.Photo, error)
	GetMyPhotos(ctx context.Context, userID primitive.ObjectID) ([]PhotoDetails, error)
	Delete(ctx context.Context, photoID, userID primitive.ObjectID) error
}

// photoService implements the PhotoService interface.
type photoService struct {
	photoRepo repository.PhotoRepository
	userRepo  repository.UserRepository
	store     storage.ObjectStorage
}

// NewPhotoService creates a new instance of photoService.
func NewPhotoService(photoRepo repository.PhotoRepository, userRepo repository.UserRepository, store storage.ObjectStorage) PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		userRepo:  userRepo,
		store:     store,
	}
}

// IngestFromEmail links stored image attachments to the sender's account.
func (s *photoService) IngestFromEmail(ctx context.Context, email *domain.InboundEmail, stored []StoredAttachment) ([]domain.Photo, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email.From))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("INFO: Email from unregistered sender %s; attachments stored but no photos recorded", email.From)
			return nil, nil
		}
		return nil, err
	}

	var photos []domain.Photo
	for _, att := range stored {
		if !strings.HasPrefix(strings.ToLower(att.Part.MimeType), "image/") {
			continue
		}

		photo := &domain.Photo{
			UserID:    user.ID,
			Filename:  att.Part.Filename,
			ObjectKey: att.Key,
			Caption:   email.Subject,
			Source:    domain.PhotoSourceEmail,
		}

		photoID, err := s.photoRepo.Create(ctx, photo)
		if err != nil {
			log.Printf("ERROR: Could not record photo '%s' for user %s: %v", att.Part.Filename, user.Email, err)
			continue
		}
		photo.ID = photoID
		photos = append(photos, *photo)
	}

	if len(photos) > 0 {
		log.Printf("INFO: Recorded %d photo(s) for user %s", len(photos), user.Email)
	}
	return photos, nil
}

// GetMyPhotos lists a user's photos newest first with presigned view URLs.
func (s *photoService) GetMyPhotos(ctx context.Context, userID primitive.ObjectID) ([]PhotoDetails, error) {
	photos, err := s.photoRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]PhotoDetails, 0, len(photos))
	for _, photo := range photos {
		d := PhotoDetails{Photo: photo}
		url, err := s.store.GeneratePresignedDownloadURL(ctx, photo.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Printf("WARN: Could not presign photo URL for %s: %v", photo.ID.Hex(), err)
		} else {
			d.URL = url
		}
		details = append(details, d)
	}

	return details, nil
}

// Delete removes a photo record and its blob. Only the owner may delete.
func (s *photoService) Delete(ctx context.Context, photoID, userID primitive.ObjectID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if photo.UserID != userID {
		return ErrPhotoNotFound // don't reveal other users' photo IDs
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()
	if err := s.store.Delete(opCtx, photo.ObjectKey); err != nil {
		log.Printf("WARN: Could not delete blob '%s' for removed photo: %v", photo.ObjectKey, err)
	}

	return nil
}
