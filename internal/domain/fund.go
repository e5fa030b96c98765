package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundKind identifies which side of the matching an entity belongs to
type FundKind string

const (
	KindProject  FundKind = "PROJECT"
	KindDonation FundKind = "DONATION"
)

// Counterpart returns the kind an entity of this kind is matched against
func (k FundKind) Counterpart() FundKind {
	switch k {
	case KindProject:
		return KindDonation
	case KindDonation:
		return KindProject
	default:
		return ""
	}
}

// Valid reports whether k is one of the known kinds
func (k FundKind) Valid() bool {
	return k == KindProject || k == KindDonation
}

// Now returns the current time in UTC. Tests may replace it.
var Now = func() time.Time {
	return time.Now().UTC()
}

// Fund holds the amounts and lifecycle fields shared by projects and donations.
// Invariant: 0 <= InvestedAmount <= FullAmount.
type Fund struct {
	ID             int64
	FullAmount     int64
	InvestedAmount int64
	FullyInvested  bool       // Monotonic: never reset to false once set
	CreateDate     time.Time  // Defines matching order together with ID
	CloseDate      *time.Time // NULL while open
}

// Fundable is implemented by every entity that takes part in matching.
// The allocation code only ever touches the embedded Fund.
type Fundable interface {
	Funding() *Fund
	Kind() FundKind
}

// Funding returns the fund state itself. Promoted to every type embedding Fund.
func (f *Fund) Funding() *Fund {
	return f
}

// Remaining returns how much can still be invested
func (f *Fund) Remaining() int64 {
	remaining := f.FullAmount - f.InvestedAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Exhausted reports whether the full amount has been reached.
// Uses >= so an entity that somehow went past its bound still counts as exhausted.
func (f *Fund) Exhausted() bool {
	return f.InvestedAmount >= f.FullAmount
}

// CloseIfExhausted marks the fund as fully invested and stamps CloseDate.
// Returns true only when this call performed the transition.
func (f *Fund) CloseIfExhausted() bool {
	if f.FullyInvested || !f.Exhausted() {
		return false
	}
	closedAt := Now()
	f.FullyInvested = true
	f.CloseDate = &closedAt
	return true
}

// Progress returns the invested share as a percentage rounded to two places
func (f *Fund) Progress() decimal.Decimal {
	if f.FullAmount <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.InvestedAmount).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(f.FullAmount)).
		Round(2)
}

// FundingDuration returns close_date - create_date, or zero while the fund is open
func (f *Fund) FundingDuration() time.Duration {
	if f.CloseDate == nil {
		return 0
	}
	return f.CloseDate.Sub(f.CreateDate)
}
