package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// Isolation selects how concurrent match runs are kept apart
type Isolation string

const (
	// IsolationRowLock locks the new entity and every open counterpart with FOR UPDATE
	IsolationRowLock Isolation = "row_lock"
	// IsolationAdvisory takes one transaction scoped advisory lock shared by all runs
	IsolationAdvisory Isolation = "advisory"
	// IsolationSerializable runs at SERIALIZABLE and surfaces failures as ErrConflict
	IsolationSerializable Isolation = "serializable"
	// IsolationNone is an explicit opt-out; only safe behind a process level MatchLocker
	IsolationNone Isolation = "none"
)

// matchLockKey is the pg_advisory_xact_lock key shared by every match run
const matchLockKey int64 = 0x63686172697479

// ParseIsolation validates a configured isolation name
func ParseIsolation(s string) (Isolation, error) {
	switch i := Isolation(s); i {
	case IsolationRowLock, IsolationAdvisory, IsolationSerializable, IsolationNone:
		return i, nil
	default:
		return "", fmt.Errorf("unknown isolation %q", s)
	}
}

// fundStore implements domain.FundStore
type fundStore struct {
	db        *DB
	isolation Isolation
}

// NewFundStore creates the store the matcher runs against
func NewFundStore(db *DB, isolation Isolation) domain.FundStore {
	return &fundStore{db: db, isolation: isolation}
}

// Begin opens a transaction configured for the isolation policy
func (s *fundStore) Begin(ctx context.Context) (domain.FundTx, error) {
	opts := &sql.TxOptions{}
	if s.isolation == IsolationSerializable {
		opts.Isolation = sql.LevelSerializable
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if s.isolation == IsolationAdvisory {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, matchLockKey); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to take match lock: %w", translateError(err))
		}
	}

	return &fundTx{tx: tx, lockRows: s.isolation == IsolationRowLock}, nil
}

// Reload returns the committed state of entity
func (s *fundStore) Reload(ctx context.Context, entity domain.Fundable) (domain.Fundable, error) {
	return getFundable(ctx, s.db, entity.Kind(), entity.Funding().ID, false)
}

// fundTx implements domain.FundTx
type fundTx struct {
	tx        *sql.Tx
	lockRows  bool
	committed bool
}

// ListOpen returns open entities of kind in matching order
func (t *fundTx) ListOpen(ctx context.Context, kind domain.FundKind) ([]domain.Fundable, error) {
	table, columns, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + columns + ` FROM ` + table + `
		WHERE fully_invested = FALSE
		ORDER BY create_date ASC, id ASC`
	if t.lockRows {
		query += ` FOR UPDATE`
	}

	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open %s: %w", table, translateError(err))
	}
	defer rows.Close()

	var open []domain.Fundable
	for rows.Next() {
		entity, err := scanFundable(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		open = append(open, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, translateError(err))
	}

	return open, nil
}

// Get reads one entity inside the transaction
func (t *fundTx) Get(ctx context.Context, kind domain.FundKind, id int64) (domain.Fundable, error) {
	return getFundable(ctx, t.tx, kind, id, t.lockRows)
}

// Commit writes the amount and closure fields of every mutated entity, then commits
func (t *fundTx) Commit(ctx context.Context, mutated []domain.Fundable) error {
	for _, entity := range mutated {
		table, _, err := tableFor(entity.Kind())
		if err != nil {
			return err
		}
		f := entity.Funding()

		result, err := t.tx.ExecContext(ctx,
			`UPDATE `+table+` SET invested_amount = $1, fully_invested = $2, close_date = $3 WHERE id = $4`,
			f.InvestedAmount,
			f.FullyInvested,
			nullTime(f.CloseDate),
			f.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update %s %d: %w", table, f.ID, translateError(err))
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update of %s %d: %w", table, f.ID, err)
		}
		if affected != 1 {
			return fmt.Errorf("%s %d: %w", table, f.ID, domain.ErrNotFound)
		}
	}

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}
	t.committed = true
	return nil
}

// Rollback abandons the transaction unless it was committed
func (t *fundTx) Rollback() error {
	if t.committed {
		return nil
	}
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// querier is satisfied by *DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getFundable(ctx context.Context, q querier, kind domain.FundKind, id int64, forUpdate bool) (domain.Fundable, error) {
	table, columns, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + columns + ` FROM ` + table + ` WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	entity, err := scanFundable(kind, q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", table, id, translateError(err))
	}
	return entity, nil
}

func tableFor(kind domain.FundKind) (table, columns string, err error) {
	switch kind {
	case domain.KindProject:
		return "charity_project", projectColumns, nil
	case domain.KindDonation:
		return "donation", donationColumns, nil
	default:
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidCounterpart, kind)
	}
}

func scanFundable(kind domain.FundKind, row rowScanner) (domain.Fundable, error) {
	if kind == domain.KindProject {
		p, err := scanProject(row)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	d, err := scanDonation(row)
	if err != nil {
		return nil, err
	}
	return d, nil
}
