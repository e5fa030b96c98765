package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	charityflowv1 "github.com/simaogato/charityflow-backend/internal/adapter/grpc/charityflow/v1"
	"github.com/simaogato/charityflow-backend/internal/domain"
	"github.com/simaogato/charityflow-backend/internal/usecase/donation"
	"github.com/simaogato/charityflow-backend/internal/usecase/project"
	"github.com/simaogato/charityflow-backend/internal/usecase/report"
)

// Server implements the FundingService gRPC server
type Server struct {
	charityflowv1.UnimplementedFundingServiceServer

	ProjectService  *project.ProjectService
	DonationService *donation.DonationService
	ReportService   *report.ReportService

	validate *validator.Validate
}

// NewServer creates a new gRPC server instance
func NewServer(
	projectService *project.ProjectService,
	donationService *donation.DonationService,
	reportService *report.ReportService,
) *Server {
	return &Server{
		ProjectService:  projectService,
		DonationService: donationService,
		ReportService:   reportService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateProject handles the CreateProject RPC
func (s *Server) CreateProject(ctx context.Context, req *charityflowv1.CreateProjectRequest) (*charityflowv1.ProjectResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	p, err := s.ProjectService.Create(ctx, project.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		FullAmount:  req.FullAmount,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &charityflowv1.ProjectResponse{Project: domainProjectToProto(p)}, nil
}

// GetProject handles the GetProject RPC
func (s *Server) GetProject(ctx context.Context, req *wrapperspb.Int64Value) (*charityflowv1.ProjectResponse, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "project id must be positive")
	}

	p, err := s.ProjectService.Get(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return &charityflowv1.ProjectResponse{Project: domainProjectToProto(p)}, nil
}

// CreateDonation handles the CreateDonation RPC
func (s *Server) CreateDonation(ctx context.Context, req *charityflowv1.CreateDonationRequest) (*charityflowv1.DonationResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// validated as a uuid above
	userID := uuid.MustParse(req.UserID)

	d, err := s.DonationService.Create(ctx, donation.CreateDonationInput{
		UserID:     userID,
		Comment:    req.Comment,
		FullAmount: req.FullAmount,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &charityflowv1.DonationResponse{Donation: domainDonationToProto(d)}, nil
}

// GetDonation handles the GetDonation RPC
func (s *Server) GetDonation(ctx context.Context, req *wrapperspb.Int64Value) (*charityflowv1.DonationResponse, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "donation id must be positive")
	}

	d, err := s.DonationService.Get(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return &charityflowv1.DonationResponse{Donation: domainDonationToProto(d)}, nil
}

// ListUserDonations handles the ListUserDonations RPC
func (s *Server) ListUserDonations(ctx context.Context, req *wrapperspb.StringValue) (*charityflowv1.ListUserDonationsResponse, error) {
	userID, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid user_id format: %v", err)
	}

	donations, err := s.DonationService.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &charityflowv1.ListUserDonationsResponse{
		Donations: make([]*charityflowv1.Donation, 0, len(donations)),
	}
	for _, d := range donations {
		resp.Donations = append(resp.Donations, domainDonationToProto(d))
	}
	return resp, nil
}

// ListClosedProjects handles the ListClosedProjects RPC
func (s *Server) ListClosedProjects(ctx context.Context, _ *emptypb.Empty) (*charityflowv1.ListClosedProjectsResponse, error) {
	rep, err := s.ReportService.Build(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &charityflowv1.ListClosedProjectsResponse{
		Title:   rep.Title,
		Columns: rep.Columns,
		Rows:    make([]*charityflowv1.ClosedProject, 0, len(rep.Rows)),
	}
	for _, row := range rep.Rows {
		resp.Rows = append(resp.Rows, &charityflowv1.ClosedProject{
			ProjectID:   row.ProjectID,
			Name:        row.Name,
			Duration:    row.Duration,
			Description: row.Description,
		})
	}
	return resp, nil
}

// validateRequest runs the struct tag rules and reports the first failing field
func (s *Server) validateRequest(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return status.Errorf(codes.InvalidArgument, "invalid %s: failed %q rule", strings.ToLower(fe.Field()), fe.Tag())
	}
	return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
}

func domainFundingToProto(f *domain.Fund) charityflowv1.Funding {
	return charityflowv1.Funding{
		FullAmount:     f.FullAmount,
		InvestedAmount: f.InvestedAmount,
		FullyInvested:  f.FullyInvested,
		Progress:       f.Progress().StringFixed(2),
		CreateDate:     f.CreateDate,
		CloseDate:      f.CloseDate,
	}
}

// domainProjectToProto converts a domain CharityProject to its wire message
func domainProjectToProto(p *domain.CharityProject) *charityflowv1.Project {
	return &charityflowv1.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Funding:     domainFundingToProto(&p.Fund),
	}
}

// domainDonationToProto converts a domain Donation to its wire message
func domainDonationToProto(d *domain.Donation) *charityflowv1.Donation {
	return &charityflowv1.Donation{
		ID:      d.ID,
		UserID:  d.UserID.String(),
		Comment: d.Comment,
		Funding: domainFundingToProto(&d.Fund),
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidCounterpart):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateName):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
