package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// donationRepository implements domain.DonationRepository
type donationRepository struct {
	db *DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *DB) domain.DonationRepository {
	return &donationRepository{db: db}
}

// Create inserts a new donation and assigns its ID
func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donation (user_id, comment, full_amount, invested_amount, fully_invested, create_date, close_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		donation.UserID,
		donation.Comment,
		donation.FullAmount,
		donation.InvestedAmount,
		donation.FullyInvested,
		donation.CreateDate.UTC(),
		nullTime(donation.CloseDate),
	).Scan(&donation.ID)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", translateError(err))
	}

	return nil
}

// GetByID retrieves a donation by its ID
func (r *donationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donation WHERE id = $1`

	donation, err := scanDonation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get donation %d: %w", id, translateError(err))
	}
	return donation, nil
}

// ListByUser returns the donations of a user, oldest first
func (r *donationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donation
		WHERE user_id = $1
		ORDER BY create_date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", translateError(err))
	}
	defer rows.Close()

	donations := make([]*domain.Donation, 0)
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate donations: %w", err)
	}

	return donations, nil
}
