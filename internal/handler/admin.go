package handler

import (
	"log/slog"
	"net/http"

	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/httputil"
)

// AdminHandler serves the department head under /api/admin
type AdminHandler struct {
	service reportSvc.AdminService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service reportSvc.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// Dashboard returns reviewer load, classes and student progress
// GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context(), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, d)
}

// GetProject returns any student's report
// GET /api/admin/students/{studentId}/project
func (h *AdminHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetProject(r.Context(), httputil.GetCaller(r), r.PathValue("studentId"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, view)
}

// RenderPage returns one page of any student's report
// GET /api/admin/students/{studentId}/pages/{index}
func (h *AdminHandler) RenderPage(w http.ResponseWriter, r *http.Request) {
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

// DeleteStudent removes a student and their report
// DELETE /api/admin/students/{studentId}
func (h *AdminHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentId")
	if err := h.service.DeleteStudent(r.Context(), httputil.GetCaller(r), studentID); err != nil {
		handleError(w, err)
		return
	}
	h.logger.Info("student removed by admin", "student_id", studentID, "admin_id", httputil.GetUserID(r))
	w.WriteHeader(http.StatusNoContent)
}

// CreateClass creates a department class
// POST /api/admin/classes
func (h *AdminHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req reportSvc.CreateClassRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, bodyError(err))
		return
	}

	class, err := h.service.CreateClass(r.Context(), httputil.GetCaller(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, class)
}

// CreateReviewer provisions a mentor account
// POST /api/admin/reviewers
func (h *AdminHandler) CreateReviewer(w http.ResponseWriter, r *http.Request) {
	var req reportSvc.CreateReviewerRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, bodyError(err))
		return
	}

	reviewer, err := h.service.CreateReviewer(r.Context(), httputil.GetCaller(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, reviewer)
}
