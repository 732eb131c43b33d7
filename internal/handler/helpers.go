package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"reportdesk/internal/domain"
	"reportdesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Report errors carry
// the fields the editor needs to point at the offending section or page.
func handleError(w http.ResponseWriter, err error) {
	var (
		capacityErr   *domain.CapacityExceededError
		shapeErr      *domain.ShapeMismatchError
		transitionErr *domain.InvalidTransitionError
		conflictErr   *domain.ConflictError
		tooLargeErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &capacityErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, capacityErr.Error(), map[string]interface{}{
			"section_id":      capacityErr.SectionID,
			"page_index":      capacityErr.PageIndex,
			"estimated_lines": capacityErr.Estimated,
			"max_lines":       capacityErr.Max,
			"over":            capacityErr.Over(),
		})
	case errors.As(err, &shapeErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, shapeErr.Error(), map[string]interface{}{
			"section_id": shapeErr.SectionID,
			"kind":       shapeErr.Kind,
		})
	case errors.As(err, &transitionErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, transitionErr.Error(), map[string]interface{}{
			"section_id": transitionErr.SectionID,
			"from":       transitionErr.From,
			"to":         transitionErr.To,
		})
	case errors.Is(err, domain.ErrPaymentRequired):
		httputil.RespondError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &tooLargeErr):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pageIndex reads {index} and writes a 400 when it is not a page number.
func pageIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := httputil.PathIndex(r, "index")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return index, true
}

func respondPNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Cache-Control", "private, max-age=60")
	httputil.RespondBinary(w, "image/png", "", png)
}
