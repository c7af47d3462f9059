package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/interfaces"
	"roadmate/backend/internal/model"
)

const maxReportRequestBytes = 51 << 20

type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed resolved" example:"reviewed"`
}

type ReportResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Report  *model.Report `json:"report"`
}

type ForumResponse struct {
	Success    bool             `json:"success"`
	Data       []model.Report   `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

type ReportHandler struct {
	service interfaces.ReportService
}

func NewReportHandler(svc interfaces.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// SubmitReport godoc
// @Summary      Submit an anonymous report
// @Tags         Reports
// @Accept       multipart/form-data
// @Produce      json
// @Param        description  formData  string  true  "What happened"
// @Param        location     formData  string  true  "Where"
// @Param        photos       formData  file    true  "1 to 5 images, up to 10 MB each"
// @Success      201          {object}  ReportResponse
// @Failure      400          {object}  ErrorResponse
// @Router       /report/submit [post]
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, maxReportRequestBytes); err != nil {
		respondWithError(w, err)
		return
	}

	photos, cleanup, err := openUploads(r, "photos")
	defer cleanup()
	if err != nil {
		respondWithError(w, err)
		return
	}

	report, err := h.service.SubmitReport(r.Context(), r.FormValue("description"), r.FormValue("location"), photos)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, ReportResponse{Success: true, Message: "Report submitted successfully", Report: report})
}

// Forum godoc
// @Summary      Browse reports
// @Tags         Reports
// @Produce      json
// @Param        page       query     int     false  "Page, from 1"
// @Param        limit      query     int     false  "Page size, max 100"
// @Param        sortBy     query     string  false  "submittedAt, createdAt, updatedAt, status or location"
// @Param        sortOrder  query     string  false  "asc or desc"
// @Param        status     query     string  false  "pending, reviewed or resolved"
// @Param        location   query     string  false  "Substring of the location"
// @Success      200        {object}  ForumResponse
// @Failure      400        {object}  ErrorResponse
// @Router       /report/forum [get]
func (h *ReportHandler) Forum(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.ForumQuery{
		SortBy:   q.Get("sortBy"),
		SortDesc: !strings.EqualFold(q.Get("sortOrder"), "asc"),
		Status:   q.Get("status"),
		Location: strings.TrimSpace(q.Get("location")),
	}
	var err error
	if query.Page, err = intParam(q.Get("page")); err != nil {
		respondWithError(w, fmt.Errorf("%w: page must be an integer", app_errors.ErrValidation))
		return
	}
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		respondWithError(w, fmt.Errorf("%w: limit must be an integer", app_errors.ErrValidation))
		return
	}

	page, err := h.service.Forum(r.Context(), query)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ForumResponse{Success: true, Data: page.Reports, Pagination: page.Pagination})
}

// UpdateStatus godoc
// @Summary      Moderate a report
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reportID  path      string                     true  "Report ID"
// @Param        request   body      UpdateReportStatusRequest  true  "New status"
// @Success      200       {object}  ReportResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /report/{reportID}/status [put]
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateReportStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	report, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "reportID"), req.Status)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ReportResponse{Success: true, Report: report})
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
