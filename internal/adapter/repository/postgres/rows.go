package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

const (
	projectColumns  = `id, name, description, full_amount, invested_amount, fully_invested, create_date, close_date`
	donationColumns = `id, user_id, comment, full_amount, invested_amount, fully_invested, create_date, close_date`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.CharityProject, error) {
	var p domain.CharityProject
	var closeDate sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.FullAmount,
		&p.InvestedAmount,
		&p.FullyInvested,
		&p.CreateDate,
		&closeDate,
	)
	if err != nil {
		return nil, err
	}

	p.CreateDate = p.CreateDate.UTC()
	p.CloseDate = utcOrNil(closeDate)
	return &p, nil
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	var d domain.Donation
	var closeDate sql.NullTime

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Comment,
		&d.FullAmount,
		&d.InvestedAmount,
		&d.FullyInvested,
		&d.CreateDate,
		&closeDate,
	)
	if err != nil {
		return nil, err
	}

	d.CreateDate = d.CreateDate.UTC()
	d.CloseDate = utcOrNil(closeDate)
	return &d, nil
}

func utcOrNil(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

// nullTime converts an optional close date into a query argument
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// PostgreSQL error codes the adapter gives domain meaning to
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// translateError maps driver errors onto domain sentinels, keeping the original in the chain
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %w", domain.ErrDuplicateName, err)
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		}
	}
	return err
}
