package service_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/repository"
	mock_repo "roadmate/backend/internal/repository/mocks"
	"roadmate/backend/internal/service"
	mock_storage "roadmate/backend/internal/storage/mocks"
)

func photo(name string) service.Upload {
	return service.Upload{Filename: name, ContentType: "image/jpeg", Size: 2048, Body: strings.NewReader("jpeg")}
}

func TestReportService_SubmitReport(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		blobs := mock_storage.NewMockBlobStore(t)
		reportService := service.NewReportService(reports, blobs)

		blobs.On("Put", ctx, "anonymous-reports", "a.jpg", "image/jpeg", mock.Anything).Return("/uploads/anonymous-reports/1.jpg", nil).Once()
		blobs.On("Put", ctx, "anonymous-reports", "b.jpg", "image/jpeg", mock.Anything).Return("/uploads/anonymous-reports/2.jpg", nil).Once()
		reports.On("CreateReport", ctx, mock.MatchedBy(func(r *model.Report) bool {
			return r.Status == model.ReportPending && len(r.Photos) == 2 && r.Location == "Main St"
		})).Return(nil).Once()

		report, err := reportService.SubmitReport(ctx, "Broken light", " Main St ", []service.Upload{photo("a.jpg"), photo("b.jpg")})
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/anonymous-reports/1.jpg", "/uploads/anonymous-reports/2.jpg"}, report.Photos)
		assert.Equal(t, report.SubmittedAt, report.CreatedAt)
	})

	t.Run("Failure - stored photos are removed when a later one fails", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		blobs := mock_storage.NewMockBlobStore(t)
		reportService := service.NewReportService(reports, blobs)

		blobs.On("Put", ctx, "anonymous-reports", "a.jpg", "image/jpeg", mock.Anything).Return("/uploads/anonymous-reports/1.jpg", nil).Once()
		blobs.On("Put", ctx, "anonymous-reports", "b.jpg", "image/jpeg", mock.Anything).Return("/uploads/anonymous-reports/2.jpg", nil).Once()
		blobs.On("Put", ctx, "anonymous-reports", "c.jpg", "image/jpeg", mock.Anything).Return("", errors.New("disk full")).Once()
		blobs.On("Delete", mock.Anything, "/uploads/anonymous-reports/1.jpg").Return(nil).Once()
		blobs.On("Delete", mock.Anything, "/uploads/anonymous-reports/2.jpg").Return(errors.New("busy")).Once()

		_, err := reportService.SubmitReport(ctx, "Pothole", "Main St", []service.Upload{photo("a.jpg"), photo("b.jpg"), photo("c.jpg")})
		assert.ErrorContains(t, err, "could not store report photo")
	})

	t.Run("Failure - photos are removed when the report is not saved", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		blobs := mock_storage.NewMockBlobStore(t)
		reportService := service.NewReportService(reports, blobs)

		blobs.On("Put", ctx, "anonymous-reports", "a.jpg", "image/jpeg", mock.Anything).Return("/uploads/anonymous-reports/1.jpg", nil).Once()
		reports.On("CreateReport", ctx, mock.Anything).Return(errors.New("database is locked")).Once()
		blobs.On("Delete", mock.Anything, "/uploads/anonymous-reports/1.jpg").Return(nil).Once()

		_, err := reportService.SubmitReport(ctx, "Pothole", "Main St", []service.Upload{photo("a.jpg")})
		assert.ErrorContains(t, err, "could not save report")
	})

	t.Run("Failure - photo count and type", func(t *testing.T) {
		reportService := service.NewReportService(mock_repo.NewMockReportRepository(t), mock_storage.NewMockBlobStore(t))

		_, err := reportService.SubmitReport(ctx, "d", "l", nil)
		assert.ErrorIs(t, err, app_errors.ErrValidation)

		six := []service.Upload{photo("1"), photo("2"), photo("3"), photo("4"), photo("5"), photo("6")}
		_, err = reportService.SubmitReport(ctx, "d", "l", six)
		assert.ErrorIs(t, err, app_errors.ErrValidation)

		pdf := service.Upload{Filename: "doc.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("")}
		_, err = reportService.SubmitReport(ctx, "d", "l", []service.Upload{pdf})
		assert.ErrorIs(t, err, app_errors.ErrValidation)

		_, err = reportService.SubmitReport(ctx, "  ", "l", []service.Upload{photo("a.jpg")})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestReportService_Forum(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults and pagination", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		reportService := service.NewReportService(reports, mock_storage.NewMockBlobStore(t))
		expected := model.ForumQuery{Page: 1, Limit: 10, SortBy: "submittedAt", SortDesc: true}
		reports.On("ListReports", ctx, expected).Return([]model.Report{{ID: "r1"}}, 21, nil).Once()

		page, err := reportService.Forum(ctx, model.ForumQuery{SortDesc: true})
		require.NoError(t, err)
		assert.Equal(t, model.Pagination{Total: 21, Page: 1, Pages: 3, Limit: 10}, page.Pagination)
		assert.Len(t, page.Reports, 1)
	})

	t.Run("Limit is capped", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		reportService := service.NewReportService(reports, mock_storage.NewMockBlobStore(t))
		reports.On("ListReports", ctx, mock.MatchedBy(func(q model.ForumQuery) bool { return q.Limit == 100 })).
			Return([]model.Report{}, 0, nil).Once()

		page, err := reportService.Forum(ctx, model.ForumQuery{Page: 2, Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Pagination.Pages)
	})

	t.Run("Failure - page beyond any row offset", func(t *testing.T) {
		reportService := service.NewReportService(mock_repo.NewMockReportRepository(t), mock_storage.NewMockBlobStore(t))

		_, err := reportService.Forum(ctx, model.ForumQuery{Page: math.MaxInt, Limit: 10})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
		_, err = reportService.Forum(ctx, model.ForumQuery{Page: math.MaxInt32/100 + 2, Limit: 100})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - bad sort field or status", func(t *testing.T) {
		reportService := service.NewReportService(mock_repo.NewMockReportRepository(t), mock_storage.NewMockBlobStore(t))

		_, err := reportService.Forum(ctx, model.ForumQuery{SortBy: "password"})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
		_, err = reportService.Forum(ctx, model.ForumQuery{Status: "archived"})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestReportService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		reportService := service.NewReportService(reports, mock_storage.NewMockBlobStore(t))
		reports.On("UpdateReportStatus", ctx, "r1", model.ReportReviewed, mock.Anything).Return(nil).Once()
		reports.On("GetReport", ctx, "r1").Return(&model.Report{ID: "r1", Status: model.ReportReviewed}, nil).Once()

		report, err := reportService.UpdateStatus(ctx, "r1", model.ReportReviewed)
		require.NoError(t, err)
		assert.Equal(t, model.ReportReviewed, report.Status)
	})

	t.Run("Failure - unknown report", func(t *testing.T) {
		reports := mock_repo.NewMockReportRepository(t)
		reportService := service.NewReportService(reports, mock_storage.NewMockBlobStore(t))
		reports.On("UpdateReportStatus", ctx, "nope", model.ReportResolved, mock.Anything).Return(repository.ErrNotFound).Once()

		_, err := reportService.UpdateStatus(ctx, "nope", model.ReportResolved)
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Failure - invalid status", func(t *testing.T) {
		reportService := service.NewReportService(mock_repo.NewMockReportRepository(t), mock_storage.NewMockBlobStore(t))
		_, err := reportService.UpdateStatus(ctx, "r1", "closed")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}
