package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// Sweeper re-runs matching for entities that were stored but never matched,
// e.g. when the match step failed after the insert had been committed
type Sweeper struct {
	Store   domain.FundStore
	Matcher domain.FundMatcher
	Logger  logrus.FieldLogger
}

// NewSweeper creates a new Sweeper instance
func NewSweeper(store domain.FundStore, matcher domain.FundMatcher, logger logrus.FieldLogger) *Sweeper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sweeper{
		Store:   store,
		Matcher: matcher,
		Logger:  logger,
	}
}

// Sweep matches open donations against open projects in FIFO order
// Returns the number of donations that went through the matcher
// Logic:
//  1. Snapshot open donations and check that some project is still open
//  2. Run MatchNew for each donation, oldest first
//  3. Stop as soon as a donation stays open (no project capacity left)
//
// Running it again is harmless: transfers only ever move remaining capacity.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	donations, projectsOpen, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if !projectsOpen || len(donations) == 0 {
		return 0, nil
	}

	processed := 0
	for _, d := range donations {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		matched, err := s.Matcher.MatchNew(ctx, d, domain.KindProject)
		if err != nil {
			return processed, fmt.Errorf("failed to reconcile donation %d: %w", d.Funding().ID, err)
		}
		processed++

		if !matched.Funding().FullyInvested {
			break
		}
	}

	s.Logger.WithField("processed", processed).Info("reconcile sweep finished")
	return processed, nil
}

// snapshot reads open donations and whether any project is open, without writing
func (s *Sweeper) snapshot(ctx context.Context) ([]domain.Fundable, bool, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin reconcile snapshot: %w", err)
	}
	defer tx.Rollback()

	donations, err := tx.ListOpen(ctx, domain.KindDonation)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list open donations: %w", err)
	}
	if len(donations) == 0 {
		return nil, false, nil
	}

	projects, err := tx.ListOpen(ctx, domain.KindProject)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list open projects: %w", err)
	}

	return donations, len(projects) > 0, nil
}
