package donation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// CreateDonationInput represents the input for recording a donation
type CreateDonationInput struct {
	UserID     uuid.UUID
	Comment    string
	FullAmount int64
}

// DonationService handles donation operations
type DonationService struct {
	DonationRepo domain.DonationRepository
	Matcher      domain.FundMatcher
}

// NewDonationService creates a new DonationService instance
func NewDonationService(donationRepo domain.DonationRepository, matcher domain.FundMatcher) *DonationService {
	return &DonationService{
		DonationRepo: donationRepo,
		Matcher:      matcher,
	}
}

// Create records a donation and spreads it over open projects, oldest first
func (s *DonationService) Create(ctx context.Context, input CreateDonationInput) (*domain.Donation, error) {
	donation := &domain.Donation{
		Fund: domain.Fund{
			FullAmount: input.FullAmount,
			CreateDate: domain.Now(),
		},
		UserID:  input.UserID,
		Comment: input.Comment,
	}

	if err := donation.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.DonationRepo.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	matched, err := s.Matcher.MatchNew(ctx, donation, domain.KindProject)
	if err != nil {
		return nil, fmt.Errorf("failed to match donation %d: %w", donation.ID, err)
	}

	result, ok := matched.(*domain.Donation)
	if !ok {
		return nil, fmt.Errorf("unexpected matcher result %T for donation %d", matched, donation.ID)
	}
	return result, nil
}

// Get retrieves a donation by its ID
func (s *DonationService) Get(ctx context.Context, id int64) (*domain.Donation, error) {
	donation, err := s.DonationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation %d: %w", id, err)
	}
	return donation, nil
}

// ListByUser returns every donation made by userID, oldest first
func (s *DonationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	donations, err := s.DonationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}
