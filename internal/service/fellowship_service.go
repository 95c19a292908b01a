package service

import (
	"context"
	"errors"
	"log"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/fellowship"
	"vamo/fellowship-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUserNotFound is returned when the target of a fellowship operation
// does not exist.
var ErrUserNotFound = errors.New("user not found")

// StatusReport is the snapshot plus the context callers render alongside it.
type StatusReport struct {
	fellowship.Snapshot
	CustomerProofsCount int       `json:"customerProofsCount"`
	StartDate           time.Time `json:"startDate"`
	EndDate             time.Time `json:"endDate"`
}

// SweepResult describes one user the automatic sweep force-submitted.
type SweepResult struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	CustomerCount int    `json:"customerCount"`
	HasPassed     bool   `json:"hasPassed"`
}

// SubmissionDetails pairs a submitted user with their proofs for admin review.
type SubmissionDetails struct {
	User   domain.User            `json:"user"`
	Proofs []domain.CustomerProof `json:"proofs"`
}

// FellowshipService hosts the clock: it loads the persisted inputs, calls
// the pure functions, and applies the transitions they approve.
type FellowshipService interface {
	Status(ctx context.Context, userID primitive.ObjectID) (*StatusReport, error)
	// SubmitEarly is the user-initiated path; it enforces the customer quota.
	SubmitEarly(ctx context.Context, userID primitive.ObjectID) (customerCount int, err error)
	// SweepExpired force-submits every expired active fellowship regardless
	// of quota. The sweep is a hard deadline cutoff.
	SweepExpired(ctx context.Context) ([]SweepResult, error)
	// Review applies an admin approve/reject decision.
	Review(ctx context.Context, userID primitive.ObjectID, decision domain.FellowshipStatus) (*domain.User, error)
	ListSubmissions(ctx context.Context) ([]SubmissionDetails, error)
}

// fellowshipService implements the FellowshipService interface.
type fellowshipService struct {
	userRepo  repository.UserRepository
	proofRepo repository.ProofRepository
	now       func() time.Time // injectable for tests
}

// NewFellowshipService creates a new instance of fellowshipService.
func NewFellowshipService(userRepo repository.UserRepository, proofRepo repository.ProofRepository) FellowshipService {
	return &fellowshipService{
		userRepo:  userRepo,
		proofRepo: proofRepo,
		now:       time.Now,
	}
}

// Status computes the current snapshot for a user.
func (s *fellowshipService) Status(ctx context.Context, userID primitive.ObjectID) (*StatusReport, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	count, err := s.proofRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap, err := fellowship.GetStatus(user.FellowshipStartDate, s.now(), count, user.FellowshipStatus)
	if err != nil {
		return nil, err
	}

	return &StatusReport{
		Snapshot:            snap,
		CustomerProofsCount: count,
		StartDate:           user.FellowshipStartDate,
		EndDate:             user.FellowshipStartDate.AddDate(0, 0, fellowship.DurationDays),
	}, nil
}

// SubmitEarly lets a participant close out their fellowship before day 100.
// Fails with fellowship.ErrInvalidState when the fellowship is no longer
// active and fellowship.ErrQuotaNotMet below 10 customers.
func (s *fellowshipService) SubmitEarly(ctx context.Context, userID primitive.ObjectID) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	count, err := s.proofRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := fellowship.ValidateManualSubmit(user.FellowshipStatus, count); err != nil {
		return count, err
	}

	submittedAt := s.now().UTC()
	if err := s.userRepo.UpdateFellowshipStatus(ctx, userID, domain.FellowshipSubmitted, &submittedAt); err != nil {
		return count, err
	}

	log.Printf("INFO: Fellowship submitted early by user %s with %d/%d customers", user.Email, count, fellowship.CustomerQuota)
	return count, nil
}

// SweepExpired scans all active fellowships and submits the ones past their
// deadline. A failed transition for one user is logged and does not stop
// the sweep.
func (s *fellowshipService) SweepExpired(ctx context.Context) ([]SweepResult, error) {
	users, err := s.userRepo.ListByFellowshipStatus(ctx, domain.FellowshipActive)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := []SweepResult{}

	for _, user := range users {
		if !fellowship.ShouldAutoSubmit(user.FellowshipStartDate, now, user.FellowshipStatus) {
			continue
		}

		count, err := s.proofRepo.CountByUserID(ctx, user.ID)
		if err != nil {
			log.Printf("ERROR: Sweep could not count proofs for user %s: %v", user.Email, err)
			continue
		}

		submittedAt := now.UTC()
		if err := s.userRepo.UpdateFellowshipStatus(ctx, user.ID, domain.FellowshipSubmitted, &submittedAt); err != nil {
			log.Printf("ERROR: Sweep could not submit fellowship for user %s: %v", user.Email, err)
			continue
		}

		results = append(results, SweepResult{
			UserID:        user.ID.Hex(),
			Email:         user.Email,
			Name:          user.Name,
			CustomerCount: count,
			HasPassed:     count >= fellowship.CustomerQuota,
		})
		log.Printf("INFO: Auto-submitted fellowship for user %s: %d/%d customers", user.Email, count, fellowship.CustomerQuota)
	}

	return results, nil
}

// Review applies the admin decision on a submitted fellowship. Only
// approved and rejected are acceptable decisions, and only from the
// submitted state; terminal states are immutable.
func (s *fellowshipService) Review(ctx context.Context, userID primitive.ObjectID, decision domain.FellowshipStatus) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !fellowship.CanTransition(user.FellowshipStatus, decision) {
		return nil, fellowship.ErrInvalidState
	}

	if err := s.userRepo.UpdateFellowshipStatus(ctx, userID, decision, nil); err != nil {
		return nil, err
	}

	user.FellowshipStatus = decision
	log.Printf("INFO: Fellowship for user %s reviewed: %s", user.Email, decision)
	return user, nil
}

// ListSubmissions returns every fellowship the admin can review, newest
// submission first, each with its proofs.
func (s *fellowshipService) ListSubmissions(ctx context.Context) ([]SubmissionDetails, error) {
	users, err := s.userRepo.ListByFellowshipStatus(ctx,
		domain.FellowshipSubmitted,
		domain.FellowshipApproved,
		domain.FellowshipRejected,
	)
	if err != nil {
		return nil, err
	}

	details := make([]SubmissionDetails, 0, len(users))
	for _, user := range users {
		proofs, err := s.proofRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = ""
		details = append(details, SubmissionDetails{User: user, Proofs: proofs})
	}

	return details, nil
}
