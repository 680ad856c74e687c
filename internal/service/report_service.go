package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/loopify/deal-service/internal/adapter/nats"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/repository"
)

const natsSubjectListingRemoved = "listing.removed"

type SubmitReportOutput struct {
	Report  *entity.Report
	Outcome entity.ReportOutcome
}

// ReportView is a report enriched for the moderation screen. Fields stay
// empty when the listing or reporter is no longer resolvable.
type ReportView struct {
	Report       entity.Report
	ListingTitle string
	ReporterName string
}

type ListReportsOutput struct {
	Reports    []ReportView
	TotalCount int64
}

type ReportService interface {
	SubmitReport(ctx context.Context, reporterID, listingID string, reason entity.ReportReason, details string) (*SubmitReportOutput, error)
	ListReports(ctx context.Context, page, pageSize int) (*ListReportsOutput, error)
}

type reportService struct {
	reportRepo   repository.ReportRepository
	listingRepo  repository.ListingRepository
	listings     *ListingResolver
	users        repository.UserReader
	notifier     NotificationService
	msgPublisher nats.MessagePublisher
	threshold    int
	log          logger.Logger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	listingRepo repository.ListingRepository,
	listings *ListingResolver,
	users repository.UserReader,
	notifier NotificationService,
	msgPublisher nats.MessagePublisher,
	threshold int,
	log logger.Logger,
) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		listingRepo:  listingRepo,
		listings:     listings,
		users:        users,
		notifier:     notifier,
		msgPublisher: msgPublisher,
		threshold:    threshold,
		log:          log,
	}
}

func (s *reportService) SubmitReport(ctx context.Context, reporterID, listingID string, reason entity.ReportReason, details string) (*SubmitReportOutput, error) {
	s.log.Infof("User %s reporting listing %s for %s", reporterID, listingID, reason)

	report, err := entity.NewReport(listingID, reporterID, reason, details)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.Resolve(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to resolve listing %s: %w", listingID, err)
	}

	reportID, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Warnf("User %s already reported listing %s", reporterID, listingID)
			return nil, entity.ErrDuplicateReport
		}
		s.log.Errorf("Failed to save report on listing %s by user %s: %v", listingID, reporterID, err)
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	report.ID = reportID

	s.acknowledgeReporter(ctx, report, listing)

	outcome := entity.OutcomeSubmitted
	count, err := s.reportRepo.CountByListing(ctx, listingID)
	if err != nil {
		// The report itself is saved; a failed recount just postpones the
		// threshold decision to the next report.
		s.log.Errorf("Failed to count reports for listing %s: %v", listingID, err)
		return &SubmitReportOutput{Report: report, Outcome: outcome}, nil
	}

	if count >= int64(s.threshold) {
		if removed := s.removeListing(ctx, listing, count); removed {
			outcome = entity.OutcomeRemoved
		}
	}

	s.log.Infof("Report %s on listing %s recorded (count %d, outcome %s)", reportID, listingID, count, outcome)
	return &SubmitReportOutput{Report: report, Outcome: outcome}, nil
}

func (s *reportService) acknowledgeReporter(ctx context.Context, report *entity.Report, listing *entity.Listing) {
	message := fmt.Sprintf("Thanks for your report on %q. Our team will review it.", listing.Title)
	metadata := map[string]string{
		"listing_id": report.ListingID,
		"reason":     string(report.Reason),
	}
	if _, err := s.notifier.Notify(ctx, report.ReporterID, entity.NotificationReportAck, message, nil, metadata); err != nil {
		s.log.Warnf("Failed to acknowledge report %s to user %s: %v", report.ID, report.ReporterID, err)
	}
}

func (s *reportService) removeListing(ctx context.Context, listing *entity.Listing, count int64) bool {
	err := s.listingRepo.Delete(ctx, listing.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Someone else's report already removed it; still report the
			// terminal outcome to this caller.
			s.listings.Invalidate(ctx, listing.ID)
			return true
		}
		s.log.Errorf("Failed to remove listing %s after %d reports: %v", listing.ID, count, err)
		return false
	}

	s.listings.Invalidate(ctx, listing.ID)

	event := map[string]interface{}{
		"listing_id":   listing.ID,
		"seller_id":    listing.SellerID,
		"report_count": count,
	}
	if errPub := s.msgPublisher.Publish(ctx, natsSubjectListingRemoved, event); errPub != nil {
		s.log.Warnf("Failed to publish listing removed event for listing %s: %v", listing.ID, errPub)
	}

	s.log.Infof("Listing %s removed after reaching %d reports", listing.ID, count)
	return true
}

func (s *reportService) ListReports(ctx context.Context, page, pageSize int) (*ListReportsOutput, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	result, err := s.reportRepo.List(ctx, page, pageSize)
	if err != nil {
		s.log.Errorf("Failed to list reports: %v", err)
		return nil, fmt.Errorf("failed to retrieve reports: %w", err)
	}

	views := make([]ReportView, len(result.Reports))
	for i, report := range result.Reports {
		views[i] = ReportView{Report: report}

		if listing, err := s.listings.Resolve(ctx, report.ListingID); err == nil {
			views[i].ListingTitle = listing.Title
		}
		if name, err := s.users.GetUsernameByID(ctx, report.ReporterID); err == nil {
			views[i].ReporterName = name
		}
	}

	return &ListReportsOutput{Reports: views, TotalCount: result.TotalCount}, nil
}
