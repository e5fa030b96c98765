package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

const (
	projectColumns  = `id, name, description, full_amount, invested_amount, fully_invested, create_date, close_date`
	donationColumns = `id, user_id, comment, full_amount, invested_amount, fully_invested, create_date, close_date`
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.CharityProject, error) {
	var (
		p          domain.CharityProject
		createDate int64
		closeDate  sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.FullAmount, &p.InvestedAmount, &p.FullyInvested, &createDate, &closeDate); err != nil {
		return nil, err
	}
	p.CreateDate = fromMillis(createDate)
	p.CloseDate = fromNullMillis(closeDate)
	return &p, nil
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	var (
		d          domain.Donation
		createDate int64
		closeDate  sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Comment, &d.FullAmount, &d.InvestedAmount, &d.FullyInvested, &createDate, &closeDate); err != nil {
		return nil, err
	}
	d.CreateDate = fromMillis(createDate)
	d.CloseDate = fromNullMillis(closeDate)
	return &d, nil
}

// translateError maps SQLite result codes onto domain sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %w", domain.ErrDuplicateName, err)
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		}
	}
	return err
}
