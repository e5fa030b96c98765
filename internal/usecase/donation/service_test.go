package donation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// MockDonationRepository is a mock implementation of DonationRepository for testing
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Donation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Donation), args.Error(1)
}

// MockMatcher is a mock implementation of FundMatcher for testing
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) MatchNew(ctx context.Context, newEntity domain.Fundable, counterpartKind domain.FundKind) (domain.Fundable, error) {
	args := m.Called(ctx, newEntity, counterpartKind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Fundable), args.Error(1)
}

func TestCreate_InsertsAndMatchesAgainstProjects(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockDonationRepository)
	mockMatcher := new(MockMatcher)
	service := NewDonationService(mockRepo, mockMatcher)
	userID := uuid.New()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Donation")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Donation).ID = 7
		}).
		Return(nil)
	matched := &domain.Donation{
		Fund:   domain.Fund{ID: 7, FullAmount: 300, InvestedAmount: 300, FullyInvested: true},
		UserID: userID,
	}
	mockMatcher.On("MatchNew", ctx, mock.AnythingOfType("*domain.Donation"), domain.KindProject).Return(matched, nil)

	result, err := service.Create(ctx, CreateDonationInput{UserID: userID, Comment: "for the cats", FullAmount: 300})

	require.NoError(t, err)
	assert.Same(t, matched, result)

	created := mockRepo.Calls[0].Arguments.Get(1).(*domain.Donation)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "for the cats", created.Comment)
	assert.Equal(t, int64(0), created.InvestedAmount)
	assert.False(t, created.CreateDate.IsZero())
	mockMatcher.AssertExpectations(t)
}

func TestCreate_InvalidDonation(t *testing.T) {
	tests := []struct {
		name   string
		input  CreateDonationInput
		errMsg string
	}{
		{"Missing user", CreateDonationInput{FullAmount: 10}, "donation must reference a user"},
		{"Zero amount", CreateDonationInput{UserID: uuid.New()}, "full amount must be positive"},
		{"Negative amount", CreateDonationInput{UserID: uuid.New(), FullAmount: -1}, "full amount must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockDonationRepository)
			service := NewDonationService(mockRepo, new(MockMatcher))

			_, err := service.Create(context.Background(), tt.input)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.errMsg)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_InsertFailureSkipsMatching(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockDonationRepository)
	mockMatcher := new(MockMatcher)
	service := NewDonationService(mockRepo, mockMatcher)
	dbErr := errors.New("disk full")

	mockRepo.On("Create", ctx, mock.Anything).Return(dbErr)

	_, err := service.Create(ctx, CreateDonationInput{UserID: uuid.New(), FullAmount: 10})

	assert.ErrorIs(t, err, dbErr)
	mockMatcher.AssertNotCalled(t, "MatchNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockDonationRepository)
	service := NewDonationService(mockRepo, new(MockMatcher))
	userID := uuid.New()

	donations := []*domain.Donation{
		{Fund: domain.Fund{ID: 1, FullAmount: 10}, UserID: userID},
		{Fund: domain.Fund{ID: 2, FullAmount: 20}, UserID: userID},
	}
	mockRepo.On("ListByUser", ctx, userID).Return(donations, nil)

	got, err := service.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, donations, got)

	_, err = service.ListByUser(ctx, uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNumberOfCalls(t, "ListByUser", 1)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockDonationRepository)
	service := NewDonationService(mockRepo, new(MockMatcher))

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound)

	_, err := service.Get(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get donation 99")
}
