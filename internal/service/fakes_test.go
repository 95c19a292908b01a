package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/mail"
	"vamo/fellowship-app/internal/repository"
	"vamo/fellowship-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- user repository fake ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User

	updateErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	user.ID = id
	// Persist a copy; callers mutate their struct after the insert (Register
	// clears the password hash) and the "stored" row must not follow.
	copied := *user
	r.users[id] = &copied
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) ListByFellowshipStatus(_ context.Context, statuses ...domain.FellowshipStatus) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		for _, s := range statuses {
			if u.FellowshipStatus == s {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateFellowshipStatus(_ context.Context, id primitive.ObjectID, status domain.FellowshipStatus, submittedAt *time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FellowshipStatus = status
	if submittedAt != nil {
		u.SubmittedAt = submittedAt
	}
	return nil
}

func (r *fakeUserRepo) SetWorkspace(_ context.Context, userID, workspaceID primitive.ObjectID) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.HasJoinedWorkspace = true
	u.CurrentWorkspaceID = &workspaceID
	return nil
}

// --- proof repository fake ---

type fakeProofRepo struct {
	proofs   map[primitive.ObjectID]*domain.CustomerProof
	countErr error
}

func newFakeProofRepo() *fakeProofRepo {
	return &fakeProofRepo{proofs: map[primitive.ObjectID]*domain.CustomerProof{}}
}

func (r *fakeProofRepo) addProofs(userID primitive.ObjectID, n int) {
	for i := 0; i < n; i++ {
		id := primitive.NewObjectID()
		r.proofs[id] = &domain.CustomerProof{
			ID:           id,
			UserID:       userID,
			CustomerName: fmt.Sprintf("Customer %d", i+1),
		}
	}
}

func (r *fakeProofRepo) Create(_ context.Context, proof *domain.CustomerProof) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	proof.ID = id
	r.proofs[id] = proof
	return id, nil
}

func (r *fakeProofRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CustomerProof, error) {
	p, ok := r.proofs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProofRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.CustomerProof, error) {
	var out []domain.CustomerProof
	for _, p := range r.proofs {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProofRepo) CountByUserID(_ context.Context, userID primitive.ObjectID) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	count := 0
	for _, p := range r.proofs {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProofRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.proofs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.proofs, id)
	return nil
}

// --- note repository fake ---

type fakeNoteRepo struct {
	notes map[primitive.ObjectID]*domain.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[primitive.ObjectID]*domain.Note{}}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.Note) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *note
	copied.ID = id
	r.notes[id] = &copied
	return id, nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNoteRepo) List(_ context.Context) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range r.notes {
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNoteRepo) Update(_ context.Context, note *domain.Note) error {
	if _, ok := r.notes[note.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *note
	r.notes[note.ID] = &copied
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

// --- photo repository fake ---

type fakePhotoRepo struct {
	photos map[primitive.ObjectID]*domain.Photo
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: map[primitive.ObjectID]*domain.Photo{}}
}

func (r *fakePhotoRepo) Create(_ context.Context, photo *domain.Photo) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *photo
	copied.ID = id
	r.photos[id] = &copied
	return id, nil
}

func (r *fakePhotoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePhotoRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Photo, error) {
	var out []domain.Photo
	for _, p := range r.photos {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.photos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.photos, id)
	return nil
}

// --- in-memory object storage fake ---

type memObject struct {
	content    []byte
	uploadedAt time.Time
	meta       storage.ObjectMetadata
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string]memObject
	putErr  map[string]error // per-key injected failures
}

func newMemStorage() *memStorage {
	return &memStorage{
		objects: map[string]memObject{},
		putErr:  map[string]error{},
	}
}

func (m *memStorage) Put(_ context.Context, key string, body io.Reader, _ int64, meta storage.ObjectMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.putErr[key]; ok {
		return err
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = memObject{content: content, uploadedAt: time.Now(), meta: meta}
	return nil
}

func (m *memStorage) Get(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		Body:     io.NopCloser(bytes.NewReader(obj.content)),
		Size:     int64(len(obj.content)),
		Metadata: obj.meta,
	}, nil
}

func (m *memStorage) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var infos []storage.ObjectInfo
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, storage.ObjectInfo{
			Key:        key,
			Size:       int64(len(obj.content)),
			UploadedAt: obj.uploadedAt,
			Metadata:   obj.meta,
		})
	}
	return infos, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

// --- mailer fake ---

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}
