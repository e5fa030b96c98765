package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxProjectNameLength is the longest accepted project name, in characters
const MaxProjectNameLength = 100

// CharityProject is a funding target. Donations are allocated to it until
// InvestedAmount reaches FullAmount.
type CharityProject struct {
	Fund
	Name        string // Unique across projects
	Description string
}

// Kind implements Fundable
func (p *CharityProject) Kind() FundKind {
	return KindProject
}

// Validate ensures the project adheres to domain rules
// Returns an error if validation fails
func (p *CharityProject) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxProjectNameLength {
		return errors.New("project name must be at most 100 characters")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("project description cannot be empty")
	}
	return validateFund(&p.Fund)
}

// validateFund checks the amount invariants shared by every fundable entity
func validateFund(f *Fund) error {
	if f.FullAmount <= 0 {
		return errors.New("full amount must be positive")
	}
	if f.InvestedAmount < 0 {
		return errors.New("invested amount cannot be negative")
	}
	if f.InvestedAmount > f.FullAmount {
		return errors.New("invested amount cannot exceed full amount")
	}
	if f.FullyInvested && f.CloseDate == nil {
		return errors.New("fully invested entity must have a close date")
	}
	return nil
}
