package service

import (
	"context"
	"errors"
	"strings"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

// searchResultLimit caps workspace search responses.
const searchResultLimit = 5

// WorkspaceSummary is a search hit with its member count.
type WorkspaceSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	MemberCount int64  `json:"memberCount"`
}

// JoinResult reports the outcome of a join attempt.
type JoinResult struct {
	AlreadyMember bool
	Workspace     *domain.Workspace
}

// WorkspaceService covers workspace discovery and membership.
type WorkspaceService interface {
	Search(ctx context.Context, query string) ([]WorkspaceSummary, error)
	// Join is idempotent: joining a workspace the user already belongs to
	// just refreshes their current-workspace pointer.
	Join(ctx context.Context, userID, workspaceID primitive.ObjectID) (*JoinResult, error)
}

// workspaceService implements the WorkspaceService interface.
type workspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

// NewWorkspaceService creates a new instance of workspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// Search finds workspaces by name or display name. An empty query returns
// an empty result rather than everything.
func (s *workspaceService) Search(ctx context.Context, query string) ([]WorkspaceSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []WorkspaceSummary{}, nil
	}

	workspaces, err := s.workspaceRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]WorkspaceSummary, 0, len(workspaces))
	for _, ws := range workspaces {
		count, err := s.workspaceRepo.CountMembers(ctx, ws.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, WorkspaceSummary{
			ID:          ws.ID.Hex(),
			Name:        ws.Name,
			DisplayName: ws.DisplayName,
			Description: ws.Description,
			MemberCount: count,
		})
	}

	return summaries, nil
}

// Join adds the user to the workspace and points their account at it.
func (s *workspaceService) Join(ctx context.Context, userID, workspaceID primitive.ObjectID) (*JoinResult, error) {
	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}

	alreadyMember, err := s.workspaceRepo.IsMember(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	if !alreadyMember {
		member := &domain.WorkspaceMember{
			UserID:      userID,
			WorkspaceID: workspaceID,
			Role:        "member",
		}
		if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
			// Concurrent join hit the unique index first; treat as a repeat join.
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, err
			}
			alreadyMember = true
		}
	}

	if err := s.userRepo.SetWorkspace(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	return &JoinResult{AlreadyMember: alreadyMember, Workspace: ws}, nil
}
