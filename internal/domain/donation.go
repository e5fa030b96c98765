package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Donation is a contribution made by a user. Its amount is spread over open
// projects in creation order.
type Donation struct {
	Fund
	UserID  uuid.UUID
	Comment string // Optional
}

// Kind implements Fundable
func (d *Donation) Kind() FundKind {
	return KindDonation
}

// Validate ensures the donation adheres to domain rules
func (d *Donation) Validate() error {
	if d.UserID == uuid.Nil {
		return errors.New("donation must reference a user")
	}
	return validateFund(&d.Fund)
}
