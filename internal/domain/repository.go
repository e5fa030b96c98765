package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines the interface for charity project persistence operations
type ProjectRepository interface {
	// Create inserts a new project and assigns its ID
	Create(ctx context.Context, project *CharityProject) error

	// GetByID retrieves a project by its ID
	// Returns an error wrapping ErrNotFound if it does not exist
	GetByID(ctx context.Context, id int64) (*CharityProject, error)

	// GetByName retrieves a project by its unique name
	GetByName(ctx context.Context, name string) (*CharityProject, error)

	// ListClosedByFundingDuration returns fully invested projects ordered by
	// (close_date - create_date) ASC, close_date ASC, id ASC
	ListClosedByFundingDuration(ctx context.Context) ([]*CharityProject, error)
}

// DonationRepository defines the interface for donation persistence operations
type DonationRepository interface {
	// Create inserts a new donation and assigns its ID
	Create(ctx context.Context, donation *Donation) error

	// GetByID retrieves a donation by its ID
	GetByID(ctx context.Context, id int64) (*Donation, error)

	// ListByUser returns the donations of a user, oldest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Donation, error)
}

// FundStore is the ordered record store the matcher runs against
type FundStore interface {
	// Begin opens a unit of work. Reads and writes made through the returned
	// FundTx become visible together on Commit, or not at all.
	Begin(ctx context.Context) (FundTx, error)

	// Reload returns the committed state of entity
	Reload(ctx context.Context, entity Fundable) (Fundable, error)
}

// FundTx is a single unit of work opened by FundStore.Begin
type FundTx interface {
	// ListOpen returns every entity of kind with FullyInvested = false,
	// ordered by (create_date, id) ascending
	ListOpen(ctx context.Context, kind FundKind) ([]Fundable, error)

	// Get returns the current state of one entity as seen by this unit of work.
	// Stores that lock rows lock it until Commit or Rollback.
	Get(ctx context.Context, kind FundKind, id int64) (Fundable, error)

	// Commit persists the amount and closure fields of every entity and commits
	Commit(ctx context.Context, mutated []Fundable) error

	// Rollback abandons the unit of work. It is a no-op after Commit.
	Rollback() error
}

// FundMatcher allocates a freshly stored entity against the open entities of counterpartKind
type FundMatcher interface {
	MatchNew(ctx context.Context, newEntity Fundable, counterpartKind FundKind) (Fundable, error)
}

// MatchLocker serializes match runs across goroutines or processes.
// Every run writes entities of both kinds, so there is a single lock.
type MatchLocker interface {
	// Lock blocks until the lock is held or ctx is done
	Lock(ctx context.Context) (unlock func(), err error)
}

// EventPublisher delivers matching outcomes to downstream consumers
type EventPublisher interface {
	PublishClosed(ctx context.Context, events []ClosedEvent) error
	PublishReport(ctx context.Context, report *ClosedProjectsReport) error
}
