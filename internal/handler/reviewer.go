package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/httputil"
)

// ReviewerHandler serves mentors under /api/reviewer
type ReviewerHandler struct {
	service reportSvc.ReviewerService
	logger  *slog.Logger
}

// NewReviewerHandler creates a new reviewer handler
func NewReviewerHandler(service reportSvc.ReviewerService, logger *slog.Logger) *ReviewerHandler {
	return &ReviewerHandler{
		service: service,
		logger:  logger,
	}
}

// ListStudents returns the caller's mentees with progress
// GET /api/reviewer/students
func (h *ReviewerHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListStudents(r.Context(), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

// GetProject returns a mentee's report
// GET /api/reviewer/students/{studentId}/project
func (h *ReviewerHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetProject(r.Context(), httputil.GetCaller(r), r.PathValue("studentId"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, view)
}

// RenderPage returns one page of a mentee's report
// GET /api/reviewer/students/{studentId}/pages/{index}
func (h *ReviewerHandler) RenderPage(w http.ResponseWriter, r *http.Request) {
	index, ok := pageIndex(w, r)
	if !ok {
		return
	}
	png, err := h.service.RenderPage(r.Context(), httputil.GetCaller(r), r.PathValue("studentId"), index)
	if err != nil {
		handleError(w, err)
		return
	}
	respondPNG(w, png)
}

// ExportPDF downloads a mentee's report
// GET /api/reviewer/students/{studentId}/export.pdf
func (h *ReviewerHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentId")
	var buf bytes.Buffer
	if err := h.service.ExportPDF(r.Context(), httputil.GetCaller(r), studentID, &buf); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondBinary(w, pdfContentType, reportFilename("", studentID, "pdf"), buf.Bytes())
}

// Review approves or rejects one section
// POST /api/reviewer/students/{studentId}/sections/{sectionId}/review
func (h *ReviewerHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reportSvc.ReviewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, bodyError(err))
		return
	}

	rec, err := h.service.Review(r.Context(), httputil.GetCaller(r), r.PathValue("studentId"), r.PathValue("sectionId"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rec)
}

// ApproveAll approves every stored section
// POST /api/reviewer/students/{studentId}/approve-all
func (h *ReviewerHandler) ApproveAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ApproveAll(r.Context(), httputil.GetCaller(r), r.PathValue("studentId"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, res)
}
