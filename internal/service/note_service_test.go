package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vamo/fellowship-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newNoteServiceForTest(noteRepo *fakeNoteRepo, mailer *fakeMailer) *noteService {
	return &noteService{
		noteRepo: noteRepo,
		mailer:   mailer,
		now:      time.Now,
	}
}

func noteAuthor() *domain.User {
	return &domain.User{
		ID:    primitive.NewObjectID(),
		Name:  "Frank Author",
		Email: "frank@example.com",
	}
}

func TestCreateNoteNotifiesSubscribers(t *testing.T) {
	noteRepo := newFakeNoteRepo()
	mailer := &fakeMailer{}
	svc := newNoteServiceForTest(noteRepo, mailer)

	note, err := svc.Create(context.Background(), noteAuthor(), NoteInput{
		Title:            "Week 3 update",
		Content:          "Closed two deals.",
		SubscriberEmails: []string{"mentor@example.com", "peer@example.com"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if note.ID.IsZero() {
		t.Error("created note has no ID")
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "mentor@example.com" {
		t.Errorf("first notification to %q", mailer.sent[0].To)
	}
	if !strings.Contains(mailer.sent[0].HTML, "Week 3 update") {
		t.Error("notification body missing note title")
	}
}

func TestCreateNoteSurvivesMailerFailure(t *testing.T) {
	noteRepo := newFakeNoteRepo()
	mailer := &fakeMailer{sendErr: errors.New("sendgrid 500")}
	svc := newNoteServiceForTest(noteRepo, mailer)

	note, err := svc.Create(context.Background(), noteAuthor(), NoteInput{
		Title:            "Still saved",
		Content:          "Mail is best-effort.",
		SubscriberEmails: []string{"mentor@example.com"},
	})
	if err != nil {
		t.Fatalf("Create failed because of mailer: %v", err)
	}
	if _, err := noteRepo.GetByID(context.Background(), note.ID); err != nil {
		t.Fatalf("note not persisted: %v", err)
	}
}

func TestCreateNoteRequiresTitleAndContent(t *testing.T) {
	svc := newNoteServiceForTest(newFakeNoteRepo(), &fakeMailer{})

	if _, err := svc.Create(context.Background(), noteAuthor(), NoteInput{Content: "no title"}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := svc.Create(context.Background(), noteAuthor(), NoteInput{Title: "no content"}); err == nil {
		t.Error("expected error for missing content")
	}
}

func TestUpdateNoteOwnership(t *testing.T) {
	noteRepo := newFakeNoteRepo()
	mailer := &fakeMailer{}
	svc := newNoteServiceForTest(noteRepo, mailer)

	author := noteAuthor()
	note, err := svc.Create(context.Background(), author, NoteInput{Title: "v1", Content: "first"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	t.Run("author can update", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), note.ID, author.ID, NoteInput{
			Title:            "v2",
			Content:          "second",
			SubscriberEmails: []string{"watcher@example.com"},
		})
		if err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if updated.Title != "v2" {
			t.Errorf("expected title v2, got %q", updated.Title)
		}
		if len(mailer.sent) == 0 || mailer.sent[len(mailer.sent)-1].To != "watcher@example.com" {
			t.Error("update did not notify new subscriber")
		}
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		_, err := svc.Update(context.Background(), note.ID, primitive.NewObjectID(), NoteInput{Title: "x", Content: "y"})
		if !errors.Is(err, ErrNotNoteOwner) {
			t.Fatalf("expected ErrNotNoteOwner, got %v", err)
		}
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		if err := svc.Delete(context.Background(), note.ID, primitive.NewObjectID()); !errors.Is(err, ErrNotNoteOwner) {
			t.Fatalf("expected ErrNotNoteOwner, got %v", err)
		}
	})

	t.Run("author can delete", func(t *testing.T) {
		if err := svc.Delete(context.Background(), note.ID, author.ID); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if err := svc.Delete(context.Background(), note.ID, author.ID); !errors.Is(err, ErrNoteNotFound) {
			t.Fatalf("expected ErrNoteNotFound after delete, got %v", err)
		}
	})
}

func TestBuildSubscribersSkipsBlankEmails(t *testing.T) {
	now := time.Now()
	subs := buildSubscribers([]string{" mentor@example.com ", "", "  "}, now)
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", len(subs))
	}
	if subs[0].Email != "mentor@example.com" {
		t.Errorf("expected trimmed email, got %q", subs[0].Email)
	}
}
