package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// MockFundStore is a mock implementation of FundStore for testing
type MockFundStore struct {
	mock.Mock
}

func (m *MockFundStore) Begin(ctx context.Context) (domain.FundTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.FundTx), args.Error(1)
}

func (m *MockFundStore) Reload(ctx context.Context, entity domain.Fundable) (domain.Fundable, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Fundable), args.Error(1)
}

// MockFundTx is a mock implementation of FundTx for testing
type MockFundTx struct {
	mock.Mock
}

func (m *MockFundTx) ListOpen(ctx context.Context, kind domain.FundKind) ([]domain.Fundable, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fundable), args.Error(1)
}

func (m *MockFundTx) Get(ctx context.Context, kind domain.FundKind, id int64) (domain.Fundable, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Fundable), args.Error(1)
}

func (m *MockFundTx) Commit(ctx context.Context, mutated []domain.Fundable) error {
	args := m.Called(ctx, mutated)
	return args.Error(0)
}

func (m *MockFundTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
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

func openDonation(id, full int64) *domain.Donation {
	return &domain.Donation{Fund: domain.Fund{ID: id, FullAmount: full}}
}

func closedCopy(d *domain.Donation) *domain.Donation {
	c := *d
	c.InvestedAmount = c.FullAmount
	c.FullyInvested = true
	return &c
}

func setup(t *testing.T, donations, projects []domain.Fundable) (*Sweeper, *MockFundTx, *MockMatcher) {
	t.Helper()
	ctx := context.Background()
	mockStore := new(MockFundStore)
	mockTx := new(MockFundTx)
	mockMatcher := new(MockMatcher)

	mockStore.On("Begin", ctx).Return(mockTx, nil)
	mockTx.On("ListOpen", ctx, domain.KindDonation).Return(donations, nil)
	mockTx.On("ListOpen", ctx, domain.KindProject).Return(projects, nil).Maybe()
	mockTx.On("Rollback").Return(nil)

	logger, _ := test.NewNullLogger()
	return NewSweeper(mockStore, mockMatcher, logger), mockTx, mockMatcher
}

func TestSweep_MatchesDonationsUntilProjectsRunOut(t *testing.T) {
	ctx := context.Background()
	d1, d2, d3 := openDonation(1, 10), openDonation(2, 20), openDonation(3, 30)
	sweeper, mockTx, mockMatcher := setup(t,
		[]domain.Fundable{d1, d2, d3},
		[]domain.Fundable{&domain.CharityProject{Fund: domain.Fund{ID: 9, FullAmount: 25}}},
	)

	mockMatcher.On("MatchNew", ctx, d1, domain.KindProject).Return(closedCopy(d1), nil)
	// d2 only gets 15 of its 20, so d3 is never attempted
	mockMatcher.On("MatchNew", ctx, d2, domain.KindProject).Return(d2, nil)

	processed, err := sweeper.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	mockMatcher.AssertNotCalled(t, "MatchNew", ctx, d3, domain.KindProject)
	mockTx.AssertCalled(t, "Rollback")
	mockTx.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestSweep_NothingOpen(t *testing.T) {
	sweeper, mockTx, mockMatcher := setup(t, []domain.Fundable{}, nil)

	processed, err := sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, processed)
	mockTx.AssertNotCalled(t, "ListOpen", mock.Anything, domain.KindProject)
	mockMatcher.AssertNotCalled(t, "MatchNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_NoOpenProjects(t *testing.T) {
	sweeper, _, mockMatcher := setup(t, []domain.Fundable{openDonation(1, 10)}, []domain.Fundable{})

	processed, err := sweeper.Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, processed)
	mockMatcher.AssertNotCalled(t, "MatchNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_MatchFailureStopsTheSweep(t *testing.T) {
	ctx := context.Background()
	d1, d2 := openDonation(1, 10), openDonation(2, 10)
	sweeper, _, mockMatcher := setup(t,
		[]domain.Fundable{d1, d2},
		[]domain.Fundable{&domain.CharityProject{Fund: domain.Fund{ID: 9, FullAmount: 100}}},
	)

	mockMatcher.On("MatchNew", ctx, d1, domain.KindProject).Return(nil, domain.ErrConflict)

	processed, err := sweeper.Sweep(ctx)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, processed)
	mockMatcher.AssertNumberOfCalls(t, "MatchNew", 1)
}

func TestSweep_BeginFailure(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockFundStore)
	mockStore.On("Begin", ctx).Return(nil, errors.New("database is locked"))

	_, err := NewSweeper(mockStore, new(MockMatcher), nil).Sweep(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin reconcile snapshot")
}
