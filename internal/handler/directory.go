package handler

import (
	"net/http"

	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/httputil"
)

// DirectoryHandler serves the caller's profile and the public lists used by
// the registration form.
type DirectoryHandler struct {
	service reportSvc.DirectoryService
}

func NewDirectoryHandler(service reportSvc.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// GetProfile returns the caller's profile
// GET /api/me
func (h *DirectoryHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, user)
}

// ListReviewers returns reviewer ids and names
// GET /api/reviewers
func (h *DirectoryHandler) ListReviewers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListReviewers(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}

// ListClasses returns class ids and names
// GET /api/classes
func (h *DirectoryHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListClasses(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}
