package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/charityflow-backend/internal/domain"
	"github.com/simaogato/charityflow-backend/internal/usecase/matcher"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "charityflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var base = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func insertProject(t *testing.T, repo *ProjectRepository, name string, full int64, offset time.Duration) *domain.CharityProject {
	t.Helper()
	p := &domain.CharityProject{
		Fund:        domain.Fund{FullAmount: full, CreateDate: base.Add(offset)},
		Name:        name,
		Description: name + " description",
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func insertDonation(t *testing.T, repo *DonationRepository, userID uuid.UUID, full int64, offset time.Duration) *domain.Donation {
	t.Helper()
	d := &domain.Donation{
		Fund:   domain.Fund{FullAmount: full, CreateDate: base.Add(offset)},
		UserID: userID,
	}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charityflow.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestProjectRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(openTestStore(t))

	created := insertProject(t, repo, "Shelter", 500, 0)
	assert.NotZero(t, created.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shelter", byID.Name)
	assert.Equal(t, int64(500), byID.FullAmount)
	assert.True(t, base.Equal(byID.CreateDate))
	assert.Nil(t, byID.CloseDate)

	byName, err := repo.GetByName(ctx, "Shelter")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.GetByName(ctx, "Missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepository_DuplicateName(t *testing.T) {
	repo := NewProjectRepository(openTestStore(t))
	insertProject(t, repo, "Shelter", 10, 0)

	err := repo.Create(context.Background(), &domain.CharityProject{
		Fund:        domain.Fund{FullAmount: 20, CreateDate: base},
		Name:        "Shelter",
		Description: "again",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestDonationRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewDonationRepository(openTestStore(t))
	alice, bob := uuid.New(), uuid.New()

	insertDonation(t, repo, alice, 30, 2*time.Minute)
	insertDonation(t, repo, bob, 10, 0)
	insertDonation(t, repo, alice, 20, time.Minute)

	donations, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, donations, 2)
	assert.Equal(t, int64(20), donations[0].FullAmount)
	assert.Equal(t, int64(30), donations[1].FullAmount)
	assert.Equal(t, alice, donations[0].UserID)

	none, err := repo.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFundStore_ListOpenOrderAndCommit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	projects := NewProjectRepository(s)
	funds := NewFundStore(s)

	// Same create date: id breaks the tie
	p1 := insertProject(t, projects, "A", 100, time.Minute)
	p2 := insertProject(t, projects, "B", 100, 0)
	p3 := insertProject(t, projects, "C", 100, time.Minute)

	tx, err := funds.Begin(ctx)
	require.NoError(t, err)
	open, err := tx.ListOpen(ctx, domain.KindProject)
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, []int64{p2.ID, p1.ID, p3.ID}, []int64{open[0].Funding().ID, open[1].Funding().ID, open[2].Funding().ID})

	closedAt := base.Add(time.Hour)
	first := open[0].Funding()
	first.InvestedAmount = 100
	first.FullyInvested = true
	first.CloseDate = &closedAt
	require.NoError(t, tx.Commit(ctx, open[:1]))
	require.NoError(t, tx.Rollback())

	reloaded, err := funds.Reload(ctx, open[0])
	require.NoError(t, err)
	assert.True(t, reloaded.Funding().FullyInvested)
	require.NotNil(t, reloaded.Funding().CloseDate)
	assert.True(t, closedAt.Equal(*reloaded.Funding().CloseDate))

	tx, err = funds.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	open, err = tx.ListOpen(ctx, domain.KindProject)
	require.NoError(t, err)
	assert.Len(t, open, 2, "Closed projects drop out of the open query")
}

func TestFundStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	donations := NewDonationRepository(s)
	funds := NewFundStore(s)
	d := insertDonation(t, donations, uuid.New(), 50, 0)

	tx, err := funds.Begin(ctx)
	require.NoError(t, err)
	current, err := tx.Get(ctx, domain.KindDonation, d.ID)
	require.NoError(t, err)
	current.Funding().InvestedAmount = 25
	require.NoError(t, tx.Rollback())

	reloaded, err := funds.Reload(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reloaded.Funding().InvestedAmount)
}

func TestFundStore_CheckConstraintRejectsOverInvestment(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	p := insertProject(t, NewProjectRepository(s), "Bound", 10, 0)
	funds := NewFundStore(s)

	tx, err := funds.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	p.InvestedAmount = 11
	assert.Error(t, tx.Commit(ctx, []domain.Fundable{p}))
}

func newMatcher(s *Store) *matcher.MatchService {
	logger, _ := test.NewNullLogger()
	return matcher.NewMatchService(NewFundStore(s), nil, nil, logger)
}

func TestMatchNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	projects := NewProjectRepository(s)
	donations := NewDonationRepository(s)
	service := newMatcher(s)
	userID := uuid.New()

	d1 := insertDonation(t, donations, userID, 100, 0)
	d2 := insertDonation(t, donations, userID, 150, time.Minute)
	d3 := insertDonation(t, donations, userID, 200, 2*time.Minute)

	p := insertProject(t, projects, "Scenario", 300, time.Hour)
	matched, err := service.MatchNew(ctx, p, domain.KindDonation)
	require.NoError(t, err)

	assert.Equal(t, int64(300), matched.Funding().InvestedAmount)
	assert.True(t, matched.Funding().FullyInvested)
	assert.NotNil(t, matched.Funding().CloseDate)

	for _, want := range []struct {
		id       int64
		invested int64
		closed   bool
	}{
		{d1.ID, 100, true},
		{d2.ID, 150, true},
		{d3.ID, 50, false},
	} {
		got, err := donations.GetByID(ctx, want.id)
		require.NoError(t, err)
		assert.Equal(t, want.invested, got.InvestedAmount)
		assert.Equal(t, want.closed, got.FullyInvested)
		assert.Equal(t, want.closed, got.CloseDate != nil)
	}

	closed, err := projects.ListClosedByFundingDuration(ctx)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, p.ID, closed[0].ID)
}

func TestMatchNew_ConcurrentDonationsConserveFunds(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	projects := NewProjectRepository(s)
	donations := NewDonationRepository(s)
	service := newMatcher(s)

	insertProject(t, projects, "First", 500, 0)
	insertProject(t, projects, "Second", 500, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		d := insertDonation(t, donations, uuid.New(), 100, time.Minute+time.Duration(i)*time.Second)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.MatchNew(ctx, d, domain.KindProject)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var projectTotal int64
	for _, name := range []string{"First", "Second"} {
		p, err := projects.GetByName(ctx, name)
		require.NoError(t, err)
		assert.True(t, p.FullyInvested)
		projectTotal += p.InvestedAmount
	}

	funds := NewFundStore(s)
	tx, err := funds.Begin(ctx)
	require.NoError(t, err)
	open, err := tx.ListOpen(ctx, domain.KindDonation)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	// 1200 offered, 1000 absorbed: exactly two donations stay open
	assert.Equal(t, int64(1000), projectTotal)
	assert.Len(t, open, 2)
	var unspent int64
	for _, d := range open {
		unspent += d.Funding().Remaining()
	}
	assert.Equal(t, int64(200), unspent)
}
