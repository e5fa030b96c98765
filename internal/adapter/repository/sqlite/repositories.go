package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// ProjectRepository implements domain.ProjectRepository
type ProjectRepository struct {
	store *Store
}

// NewProjectRepository returns the project repository backed by s
func NewProjectRepository(s *Store) *ProjectRepository {
	return &ProjectRepository{store: s}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.CharityProject) error {
	result, err := r.store.sqlDB.ExecContext(ctx,
		`INSERT INTO charity_project (name, description, full_amount, invested_amount, fully_invested, create_date, close_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.Name,
		project.Description,
		project.FullAmount,
		project.InvestedAmount,
		project.FullyInvested,
		toMillis(project.CreateDate),
		nullMillis(project.CloseDate),
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read project id: %w", err)
	}
	project.ID = id
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.CharityProject, error) {
	project, err := scanProject(r.store.sqlDB.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM charity_project WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, translateError(err))
	}
	return project, nil
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*domain.CharityProject, error) {
	project, err := scanProject(r.store.sqlDB.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM charity_project WHERE name = ?`, name))
	if err != nil {
		return nil, fmt.Errorf("get project by name: %w", translateError(err))
	}
	return project, nil
}

// ListClosedByFundingDuration orders by the exact millisecond funding time
func (r *ProjectRepository) ListClosedByFundingDuration(ctx context.Context) ([]*domain.CharityProject, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM charity_project
		 WHERE fully_invested = 1
		 ORDER BY (close_date - create_date) ASC, close_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list closed projects: %w", translateError(err))
	}
	defer rows.Close()

	projects := make([]*domain.CharityProject, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// DonationRepository implements domain.DonationRepository
type DonationRepository struct {
	store *Store
}

// NewDonationRepository returns the donation repository backed by s
func NewDonationRepository(s *Store) *DonationRepository {
	return &DonationRepository{store: s}
}

func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	result, err := r.store.sqlDB.ExecContext(ctx,
		`INSERT INTO donation (user_id, comment, full_amount, invested_amount, fully_invested, create_date, close_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		donation.UserID.String(),
		donation.Comment,
		donation.FullAmount,
		donation.InvestedAmount,
		donation.FullyInvested,
		toMillis(donation.CreateDate),
		nullMillis(donation.CloseDate),
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read donation id: %w", err)
	}
	donation.ID = id
	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	donation, err := scanDonation(r.store.sqlDB.QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donation WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get donation %d: %w", id, translateError(err))
	}
	return donation, nil
}

func (r *DonationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donation WHERE user_id = ? ORDER BY create_date ASC, id ASC`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", translateError(err))
	}
	defer rows.Close()

	donations := make([]*domain.Donation, 0)
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		donations = append(donations, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donations: %w", err)
	}
	return donations, nil
}

var (
	_ domain.ProjectRepository  = (*ProjectRepository)(nil)
	_ domain.DonationRepository = (*DonationRepository)(nil)
	_ domain.FundStore          = (*FundStore)(nil)
)
