package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCharityProject_Validate(t *testing.T) {
	closedAt := time.Now().UTC()

	tests := []struct {
		name    string
		project CharityProject
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid open project",
			project: CharityProject{
				Name:        "Cat shelter",
				Description: "Food for the winter",
				Fund:        Fund{FullAmount: 1000},
			},
			wantErr: false,
		},
		{
			name:    "Empty name should fail",
			project: CharityProject{Name: "  ", Description: "d", Fund: Fund{FullAmount: 10}},
			wantErr: true,
			errMsg:  "project name cannot be empty",
		},
		{
			name:    "Name over 100 characters should fail",
			project: CharityProject{Name: strings.Repeat("x", 101), Description: "d", Fund: Fund{FullAmount: 10}},
			wantErr: true,
			errMsg:  "at most 100 characters",
		},
		{
			name:    "Name of exactly 100 multibyte characters should pass",
			project: CharityProject{Name: strings.Repeat("ж", 100), Description: "d", Fund: Fund{FullAmount: 10}},
			wantErr: false,
		},
		{
			name:    "Empty description should fail",
			project: CharityProject{Name: "n", Fund: Fund{FullAmount: 10}},
			wantErr: true,
			errMsg:  "project description cannot be empty",
		},
		{
			name:    "Zero full amount should fail",
			project: CharityProject{Name: "n", Description: "d"},
			wantErr: true,
			errMsg:  "full amount must be positive",
		},
		{
			name:    "Invested above full amount should fail",
			project: CharityProject{Name: "n", Description: "d", Fund: Fund{FullAmount: 10, InvestedAmount: 11}},
			wantErr: true,
			errMsg:  "cannot exceed full amount",
		},
		{
			name:    "Fully invested without close date should fail",
			project: CharityProject{Name: "n", Description: "d", Fund: Fund{FullAmount: 10, InvestedAmount: 10, FullyInvested: true}},
			wantErr: true,
			errMsg:  "must have a close date",
		},
		{
			name: "Closed project with close date should pass",
			project: CharityProject{
				Name:        "n",
				Description: "d",
				Fund:        Fund{FullAmount: 10, InvestedAmount: 10, FullyInvested: true, CloseDate: &closedAt},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDonation_Validate(t *testing.T) {
	tests := []struct {
		name     string
		donation Donation
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "Valid donation without comment",
			donation: Donation{UserID: uuid.New(), Fund: Fund{FullAmount: 50}},
		},
		{
			name:     "Missing user should fail",
			donation: Donation{Fund: Fund{FullAmount: 50}},
			wantErr:  true,
			errMsg:   "donation must reference a user",
		},
		{
			name:     "Negative amount should fail",
			donation: Donation{UserID: uuid.New(), Fund: Fund{FullAmount: -5}},
			wantErr:  true,
			errMsg:   "full amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.donation.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
