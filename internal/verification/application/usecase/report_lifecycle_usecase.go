package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/in"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/application/ports/out"
	"github.com/jacok1ng/hackyeah-2025/internal/verification/domain"
)

// ReportLifecycleService handles report creation, lookup and manual
// resolution. Voting lives in SubmitVoteService.
type ReportLifecycleService struct {
	reports out.ReportRepository
	trips   out.TripRepository
	log     *logger.Logger
}

func NewReportLifecycleService(reports out.ReportRepository, trips out.TripRepository, log *logger.Logger) *ReportLifecycleService {
	return &ReportLifecycleService{
		reports: reports,
		trips:   trips,
		log:     log,
	}
}

func (s *ReportLifecycleService) Create(ctx context.Context, input in.CreateReportInput) (*domain.Report, error) {
	if _, err := s.trips.FindByID(ctx, input.VehicleTripID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &domain.Report{
		ID:            uuid.NewString(),
		AuthorID:      input.AuthorID,
		VehicleTripID: input.VehicleTripID,
		Category:      input.Category,
		Description:   strings.TrimSpace(input.Description),
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Confidence:    domain.InitialConfidence(input.AuthorRole),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:   "report_created",
		Message:  "incident report created",
		ReportID: report.ID,
		TripID:   report.VehicleTripID,
		Additional: map[string]any{
			"category":   string(report.Category),
			"confidence": report.Confidence,
		},
	})
	return report, nil
}

func (s *ReportLifecycleService) Get(ctx context.Context, reportID string) (*domain.Report, error) {
	return s.reports.FindByID(ctx, reportID)
}

func (s *ReportLifecycleService) Resolve(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reports.Resolve(ctx, reportID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info(logger.Entry{
		Action:   "report_resolved",
		Message:  "incident report resolved",
		ReportID: report.ID,
		TripID:   report.VehicleTripID,
	})
	return report, nil
}
