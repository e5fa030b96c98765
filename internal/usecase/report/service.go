package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/charityflow-backend/internal/domain"
)

// ReportService builds the closed projects report
type ReportService struct {
	ProjectRepo domain.ProjectRepository
	Publisher   domain.EventPublisher
	Logger      logrus.FieldLogger
}

// NewReportService creates a new ReportService instance
func NewReportService(projectRepo domain.ProjectRepository, publisher domain.EventPublisher, logger logrus.FieldLogger) *ReportService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReportService{
		ProjectRepo: projectRepo,
		Publisher:   publisher,
		Logger:      logger,
	}
}

// Build lists every fully invested project, fastest funded first
func (s *ReportService) Build(ctx context.Context) (*domain.ClosedProjectsReport, error) {
	projects, err := s.ProjectRepo.ListClosedByFundingDuration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed projects: %w", err)
	}
	// Stores compare intervals at their own precision; re-sort on the exact durations
	domain.SortByFundingDuration(projects)

	generatedAt := domain.Now()
	report := &domain.ClosedProjectsReport{
		Title:       "Report from " + generatedAt.Format(domain.ReportTimeFormat),
		GeneratedAt: generatedAt,
		Columns:     domain.ReportColumns,
		Rows:        make([]domain.ReportRow, 0, len(projects)),
	}

	for _, p := range projects {
		report.Rows = append(report.Rows, domain.ReportRow{
			ProjectID:   p.ID,
			Name:        p.Name,
			Duration:    domain.FormatFundingDuration(p.FundingDuration()),
			Description: p.Description,
		})
	}

	return report, nil
}

// Publish builds the report and hands it to the publisher for export
func (s *ReportService) Publish(ctx context.Context) (*domain.ClosedProjectsReport, error) {
	if s.Publisher == nil {
		return nil, errors.New("report publisher is not configured")
	}

	report, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.Publisher.PublishReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to publish report: %w", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"title": report.Title,
		"rows":  len(report.Rows),
	}).Info("closed projects report published")

	return report, nil
}
