package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// CreateProjectInput represents the input for opening a charity project
type CreateProjectInput struct {
	Name        string
	Description string
	FullAmount  int64
}

// ProjectService handles charity project operations
type ProjectService struct {
	ProjectRepo domain.ProjectRepository
	Matcher     domain.FundMatcher
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(projectRepo domain.ProjectRepository, matcher domain.FundMatcher) *ProjectService {
	return &ProjectService{
		ProjectRepo: projectRepo,
		Matcher:     matcher,
	}
}

// Create opens a new project and immediately funds it from open donations
// Logic:
//  1. Validate name, description and amount
//  2. Reject a name that is already taken
//  3. Insert the project as open with nothing invested
//  4. Match it against open donations and return the committed state
//
// The insert is committed before matching. If matching fails the project stays
// open and the reconcile sweep picks it up later.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*domain.CharityProject, error) {
	project := &domain.CharityProject{
		Fund: domain.Fund{
			FullAmount: input.FullAmount,
			CreateDate: domain.Now(),
		},
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	existing, err := s.ProjectRepo.GetByName(ctx, project.Name)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, project.Name)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}

	if err := s.ProjectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	matched, err := s.Matcher.MatchNew(ctx, project, domain.KindDonation)
	if err != nil {
		return nil, fmt.Errorf("failed to match project %d: %w", project.ID, err)
	}

	result, ok := matched.(*domain.CharityProject)
	if !ok {
		return nil, fmt.Errorf("unexpected matcher result %T for project %d", matched, project.ID)
	}
	return result, nil
}

// Get retrieves a project by its ID
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.CharityProject, error) {
	project, err := s.ProjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return project, nil
}
