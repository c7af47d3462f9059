package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
	"roadmate/backend/internal/storage"
)

const (
	reportPhotoFolder   = "anonymous-reports"
	maxReportPhotos     = 5
	maxReportPhotoBytes = 10 << 20

	defaultForumLimit = 10
	maxForumLimit     = 100
)

type ReportService struct {
	reports repository.ReportRepository
	blobs   storage.BlobStore
	now     func() time.Time
}

func NewReportService(reports repository.ReportRepository, blobs storage.BlobStore) *ReportService {
	return &ReportService{reports: reports, blobs: blobs, now: func() time.Time { return time.Now().UTC() }}
}

// SubmitReport stores an anonymous report with 1 to 5 image attachments.
func (s *ReportService) SubmitReport(ctx context.Context, description, location string, photos []Upload) (*model.Report, error) {
	description = strings.TrimSpace(description)
	location = strings.TrimSpace(location)
	if description == "" || location == "" {
		return nil, fmt.Errorf("%w: description and location are required", app_errors.ErrValidation)
	}
	if len(photos) == 0 || len(photos) > maxReportPhotos {
		return nil, fmt.Errorf("%w: between 1 and %d photos are required", app_errors.ErrValidation, maxReportPhotos)
	}
	for _, p := range photos {
		if err := p.validateImage(maxReportPhotoBytes); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		url, err := s.blobs.Put(ctx, reportPhotoFolder, p.Filename, p.ContentType, p.Body)
		if err != nil {
			s.discard(urls)
			return nil, fmt.Errorf("could not store report photo: %w", err)
		}
		urls = append(urls, url)
	}

	now := s.now()
	report := &model.Report{
		ID:          uuid.NewString(),
		Description: description,
		Location:    location,
		Photos:      urls,
		Status:      model.ReportPending,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		s.discard(urls)
		return nil, fmt.Errorf("could not save report: %w", err)
	}
	slog.Info("Report submitted", "report_id", report.ID, "photos", len(urls))
	return report, nil
}

// Forum pages through reports. Page defaults to 1, limit to 10 (max 100) and
// sorting to newest submission first.
func (s *ReportService) Forum(ctx context.Context, q model.ForumQuery) (*model.ForumPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultForumLimit
	}
	if q.Limit > maxForumLimit {
		q.Limit = maxForumLimit
	}
	// The row offset must fit SQLite's OFFSET without wrapping negative.
	if q.Page-1 > math.MaxInt32/q.Limit {
		return nil, fmt.Errorf("%w: page %d is out of range", app_errors.ErrValidation, q.Page)
	}
	if q.SortBy == "" {
		q.SortBy = "submittedAt"
	}
	if !repository.IsSortableReportField(q.SortBy) {
		return nil, fmt.Errorf("%w: cannot sort by %q", app_errors.ErrValidation, q.SortBy)
	}
	if q.Status != "" && !validReportStatus(q.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", app_errors.ErrValidation, q.Status)
	}

	reports, total, err := s.reports.ListReports(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("could not list reports: %w", err)
	}
	return &model.ForumPage{
		Reports: reports,
		Pagination: model.Pagination{
			Total: total,
			Page:  q.Page,
			Pages: (total + q.Limit - 1) / q.Limit,
			Limit: q.Limit,
		},
	}, nil
}

// UpdateStatus moves a report through moderation.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID, status string) (*model.Report, error) {
	if !validReportStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", app_errors.ErrValidation, status)
	}
	if err := s.reports.UpdateReportStatus(ctx, reportID, status, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: report %s", app_errors.ErrNotFound, reportID)
		}
		return nil, fmt.Errorf("could not update report: %w", err)
	}
	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("could not reload report: %w", err)
	}
	slog.Info("Report status changed", "report_id", reportID, "status", status)
	return report, nil
}

// discard removes photos stored for a report that was never saved. Failures
// are only logged.
func (s *ReportService) discard(urls []string) {
	for _, url := range urls {
		if err := s.blobs.Delete(context.Background(), url); err != nil {
			slog.Warn("Failed to remove orphaned report photo", "url", url, "error", err)
		}
	}
}

func validReportStatus(status string) bool {
	switch status {
	case model.ReportPending, model.ReportReviewed, model.ReportResolved:
		return true
	}
	return false
}
