package service

import (
	"context"

	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
)

// WorkspaceService handles workspace-related business logic
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// GetWorkspaceByAuth0ID resolves the workspace owned by an authenticated user
func (s *WorkspaceService) GetWorkspaceByAuth0ID(ctx context.Context, auth0ID string) (int32, error) {
	ws, err := s.workspaceRepo.GetByUserAuth0ID(ctx, auth0ID)
	if err != nil {
		return 0, err
	}
	return ws.ID, nil
}

// GetWorkspace retrieves a workspace by ID
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(ctx, id)
}
