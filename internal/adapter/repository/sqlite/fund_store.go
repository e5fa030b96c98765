package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// FundStore implements domain.FundStore. Transactions are opened with
// BEGIN IMMEDIATE, so concurrent match runs are serialized by SQLite itself.
type FundStore struct {
	store *Store
}

// NewFundStore returns the FundStore backed by s
func NewFundStore(s *Store) *FundStore {
	return &FundStore{store: s}
}

// Begin opens a write transaction
func (f *FundStore) Begin(ctx context.Context) (domain.FundTx, error) {
	tx, err := f.store.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", translateError(err))
	}
	return &fundTx{tx: tx}, nil
}

// Reload returns the committed state of entity
func (f *FundStore) Reload(ctx context.Context, entity domain.Fundable) (domain.Fundable, error) {
	return getFundable(ctx, f.store.sqlDB, entity.Kind(), entity.Funding().ID)
}

type fundTx struct {
	tx        *sql.Tx
	committed bool
}

func (t *fundTx) ListOpen(ctx context.Context, kind domain.FundKind) ([]domain.Fundable, error) {
	table, columns, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+columns+` FROM `+table+` WHERE fully_invested = 0 ORDER BY create_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query open %s: %w", table, translateError(err))
	}
	defer rows.Close()

	var open []domain.Fundable
	for rows.Next() {
		entity, err := scanFundable(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		open = append(open, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, translateError(err))
	}
	return open, nil
}

func (t *fundTx) Get(ctx context.Context, kind domain.FundKind, id int64) (domain.Fundable, error) {
	return getFundable(ctx, t.tx, kind, id)
}

func (t *fundTx) Commit(ctx context.Context, mutated []domain.Fundable) error {
	for _, entity := range mutated {
		table, _, err := tableFor(entity.Kind())
		if err != nil {
			return err
		}
		f := entity.Funding()

		result, err := t.tx.ExecContext(ctx,
			`UPDATE `+table+` SET invested_amount = ?, fully_invested = ?, close_date = ? WHERE id = ?`,
			f.InvestedAmount,
			f.FullyInvested,
			nullMillis(f.CloseDate),
			f.ID,
		)
		if err != nil {
			return fmt.Errorf("update %s %d: %w", table, f.ID, translateError(err))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check update of %s %d: %w", table, f.ID, err)
		}
		if affected != 1 {
			return fmt.Errorf("%s %d: %w", table, f.ID, domain.ErrNotFound)
		}
	}

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateError(err))
	}
	t.committed = true
	return nil
}

func (t *fundTx) Rollback() error {
	if t.committed {
		return nil
	}
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getFundable(ctx context.Context, q querier, kind domain.FundKind, id int64) (domain.Fundable, error) {
	table, columns, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	entity, err := scanFundable(kind, q.QueryRowContext(ctx, `SELECT `+columns+` FROM `+table+` WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", table, id, translateError(err))
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
