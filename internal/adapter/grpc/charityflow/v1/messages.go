package charityflowv1

import "time"

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	FullAmount  int64  `json:"full_amount" validate:"gt=0"`
}

type CreateDonationRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	Comment    string `json:"comment,omitempty" validate:"max=1000"`
	FullAmount int64  `json:"full_amount" validate:"gt=0"`
}

// Funding carries the amount and lifecycle fields common to projects and donations.
// Progress is the invested share in percent, e.g. "33.33".
type Funding struct {
	FullAmount     int64      `json:"full_amount"`
	InvestedAmount int64      `json:"invested_amount"`
	FullyInvested  bool       `json:"fully_invested"`
	Progress       string     `json:"progress"`
	CreateDate     time.Time  `json:"create_date"`
	CloseDate      *time.Time `json:"close_date,omitempty"`
}

type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Funding
}

type Donation struct {
	ID      int64  `json:"id"`
	UserID  string `json:"user_id"`
	Comment string `json:"comment,omitempty"`
	Funding
}

type ProjectResponse struct {
	Project *Project `json:"project"`
}

type DonationResponse struct {
	Donation *Donation `json:"donation"`
}

type ListUserDonationsResponse struct {
	Donations []*Donation `json:"donations"`
}

type ClosedProject struct {
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type ListClosedProjectsResponse struct {
	Title   string           `json:"title"`
	Columns []string         `json:"columns"`
	Rows    []*ClosedProject `json:"rows"`
}
