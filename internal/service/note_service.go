package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/mail"
	"vamo/fellowship-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrNotNoteOwner = errors.New("note belongs to another user")
)

// NoteInput carries the editable fields of a note.
type NoteInput struct {
	Title            string
	Content          string
	SubscriberEmails []string
}

// NoteService manages progress notes and their subscriber notifications.
type NoteService interface {
	Create(ctx context.Context, author *domain.User, input NoteInput) (*domain.Note, error)
	Update(ctx context.Context, noteID, userID primitive.ObjectID, input NoteInput) (*domain.Note, error)
	Delete(ctx context.Context, noteID, userID primitive.ObjectID) error
	List(ctx context.Context) ([]domain.Note, error)
}

// noteService implements the NoteService interface.
type noteService struct {
	noteRepo repository.NoteRepository
	mailer   mail.Mailer
	now      func() time.Time
}

// NewNoteService creates a new instance of noteService.
func NewNoteService(noteRepo repository.NoteRepository, mailer mail.Mailer) NoteService {
	return &noteService{
		noteRepo: noteRepo,
		mailer:   mailer,
		now:      time.Now,
	}
}

func buildSubscribers(emails []string, now time.Time) []domain.Subscriber {
	subs := make([]domain.Subscriber, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		subs = append(subs, domain.Subscriber{Email: email, AddedAt: now})
	}
	return subs
}

// Create stores a new note and notifies its subscribers. Notification
// failures are logged per recipient; they never fail the request.
func (s *noteService) Create(ctx context.Context, author *domain.User, input NoteInput) (*domain.Note, error) {
	if input.Title == "" || input.Content == "" {
		return nil, errors.New("note title and content are required")
	}

	note := &domain.Note{
		Title:       input.Title,
		Content:     input.Content,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Subscribers: buildSubscribers(input.SubscriberEmails, s.now().UTC()),
	}

	noteID, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, err
	}
	note.ID = noteID

	s.notifySubscribers(ctx, note, true)
	return note, nil
}

// Update rewrites a note's title, content, and subscriber list, then
// notifies the resulting subscribers. Only the author may update.
func (s *noteService) Update(ctx context.Context, noteID, userID primitive.ObjectID, input NoteInput) (*domain.Note, error) {
	if input.Title == "" || input.Content == "" {
		return nil, errors.New("note title and content are required")
	}

	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	if note.AuthorID != userID {
		return nil, ErrNotNoteOwner
	}

	note.Title = input.Title
	note.Content = input.Content
	note.Subscribers = buildSubscribers(input.SubscriberEmails, s.now().UTC())

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	s.notifySubscribers(ctx, note, false)
	return note, nil
}

// Delete removes a note. Only the author may delete; no notification is sent.
func (s *noteService) Delete(ctx context.Context, noteID, userID primitive.ObjectID) error {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	if note.AuthorID != userID {
		return ErrNotNoteOwner
	}

	return s.noteRepo.Delete(ctx, noteID)
}

// List returns every note, most recently updated first.
func (s *noteService) List(ctx context.Context) ([]domain.Note, error) {
	return s.noteRepo.List(ctx)
}

// notifySubscribers emails each subscriber about a created or updated note.
// Sends are sequential and best-effort.
func (s *noteService) notifySubscribers(ctx context.Context, note *domain.Note, created bool) {
	for _, sub := range note.Subscribers {
		msg, err := mail.NoteUpdateMessage(sub.Email, note.Title, note.Content, created)
		if err != nil {
			log.Printf("ERROR: Could not build note notification for %s: %v", sub.Email, err)
			continue
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			log.Printf("ERROR: Failed to send note notification to %s: %v", sub.Email, err)
		}
	}
}
