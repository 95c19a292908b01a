package service

import (
	"context"
	"errors"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/repository"
	"vamo/fellowship-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidDocumentType = errors.New("only images and PDF documents are allowed")
	ErrProofNotFound       = errors.New("customer proof not found")
)

// proofKeyPrefix keeps payment documents apart from email attachments in
// the shared bucket.
const proofKeyPrefix = "proofs/"

// UploadProofInput carries one payment document and its form fields.
type UploadProofInput struct {
	CustomerName string
	PaymentDate  time.Time
	Amount       float64
	FileName     string
	ContentType  string
	Size         int64
	Content      io.Reader
}

// ProofDetails is a proof plus a temporary URL to view its document.
type ProofDetails struct {
	domain.CustomerProof
	DocumentURL string `json:"documentUrl,omitempty"`
}

// ProofService manages customer payment proofs: the records in the
// database and the documents in object storage.
type ProofService interface {
	Upload(ctx context.Context, userID primitive.ObjectID, input UploadProofInput) (*domain.CustomerProof, error)
	GetMyProofs(ctx context.Context, userID primitive.ObjectID) ([]ProofDetails, error)
	// Delete removes the record and its document; admin only, enforced at
	// the route level.
	Delete(ctx context.Context, proofID primitive.ObjectID) error
}

// proofService implements the ProofService interface.
type proofService struct {
	proofRepo repository.ProofRepository
	store     storage.ObjectStorage
}

// NewProofService creates a new instance of proofService.
func NewProofService(proofRepo repository.ProofRepository, store storage.ObjectStorage) ProofService {
	return &proofService{
		proofRepo: proofRepo,
		store:     store,
	}
}

// allowedDocumentType accepts images and PDFs only.
func allowedDocumentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "image/") || ct == "application/pdf"
}

// Upload validates the document, stores it under a fresh object key, and
// records the proof.
func (s *proofService) Upload(ctx context.Context, userID primitive.ObjectID, input UploadProofInput) (*domain.CustomerProof, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if input.CustomerName == "" || input.FileName == "" || input.PaymentDate.IsZero() {
		return nil, errors.New("customer name, payment date, and document are required")
	}
	if !allowedDocumentType(input.ContentType) {
		return nil, ErrInvalidDocumentType
	}

	// Random key; unlike email attachments, collisions here would cross
	// user boundaries, so the timestamp-filename scheme is not enough.
	objectKey := proofKeyPrefix + uuid.New().String() + strings.ToLower(path.Ext(input.FileName))

	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()

	meta := storage.ObjectMetadata{
		Filename: input.FileName,
		MimeType: input.ContentType,
	}
	if err := s.store.Put(opCtx, objectKey, input.Content, input.Size, meta); err != nil {
		return nil, err
	}

	proof := &domain.CustomerProof{
		UserID:       userID,
		CustomerName: input.CustomerName,
		PaymentDate:  input.PaymentDate,
		Amount:       input.Amount,
		ObjectKey:    objectKey,
		DocumentName: input.FileName,
		ContentType:  input.ContentType,
		Size:         input.Size,
	}

	proofID, err := s.proofRepo.Create(ctx, proof)
	if err != nil {
		// Orphaned blob cleanup: the record failed, so remove the document.
		if delErr := s.store.Delete(ctx, objectKey); delErr != nil {
			log.Printf("WARN: Could not clean up orphaned document '%s': %v", objectKey, delErr)
		}
		return nil, err
	}
	proof.ID = proofID

	return proof, nil
}

// GetMyProofs lists a user's proofs newest first, each with a presigned
// download URL. A presign failure degrades to a row without a URL rather
// than failing the listing.
func (s *proofService) GetMyProofs(ctx context.Context, userID primitive.ObjectID) ([]ProofDetails, error) {
	proofs, err := s.proofRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]ProofDetails, 0, len(proofs))
	for _, proof := range proofs {
		d := ProofDetails{CustomerProof: proof}
		url, err := s.store.GeneratePresignedDownloadURL(ctx, proof.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Printf("WARN: Could not presign document URL for proof %s: %v", proof.ID.Hex(), err)
		} else {
			d.DocumentURL = url
		}
		details = append(details, d)
	}

	return details, nil
}

// Delete removes a proof record and its stored document.
func (s *proofService) Delete(ctx context.Context, proofID primitive.ObjectID) error {
	proof, err := s.proofRepo.GetByID(ctx, proofID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProofNotFound
		}
		return err
	}

	if err := s.proofRepo.Delete(ctx, proofID); err != nil {
		return err
	}

	// Record is gone; a failed blob delete only leaves an orphan behind.
	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()
	if err := s.store.Delete(opCtx, proof.ObjectKey); err != nil {
		log.Printf("WARN: Could not delete document '%s' for removed proof: %v", proof.ObjectKey, err)
	}

	return nil
}
