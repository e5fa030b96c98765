package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// projectRepository implements domain.ProjectRepository
type projectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) domain.ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project and assigns its ID
func (r *projectRepository) Create(ctx context.Context, project *domain.CharityProject) error {
	query := `
		INSERT INTO charity_project (name, description, full_amount, invested_amount, fully_invested, create_date, close_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		project.Name,
		project.Description,
		project.FullAmount,
		project.InvestedAmount,
		project.FullyInvested,
		project.CreateDate.UTC(),
		nullTime(project.CloseDate),
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", translateError(err))
	}

	return nil
}

// GetByID retrieves a project by its ID
func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.CharityProject, error) {
	query := `SELECT ` + projectColumns + ` FROM charity_project WHERE id = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, translateError(err))
	}
	return project, nil
}

// GetByName retrieves a project by its unique name
func (r *projectRepository) GetByName(ctx context.Context, name string) (*domain.CharityProject, error) {
	query := `SELECT ` + projectColumns + ` FROM charity_project WHERE name = $1`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get project by name: %w", translateError(err))
	}
	return project, nil
}

// ListClosedByFundingDuration returns fully invested projects, fastest funded first
func (r *projectRepository) ListClosedByFundingDuration(ctx context.Context) ([]*domain.CharityProject, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM charity_project
		WHERE fully_invested = TRUE
		ORDER BY (close_date - create_date) ASC, close_date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed projects: %w", translateError(err))
	}
	defer rows.Close()

	projects := make([]*domain.CharityProject, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}
