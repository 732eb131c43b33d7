package handler

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"reportdesk/internal/config"
	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/httputil"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// StudentHandler serves the student's own report under /api/me
type StudentHandler struct {
	service reportSvc.StudentService
	logger  *slog.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(service reportSvc.StudentService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger,
	}
}

// GetProject returns the report with progress
// GET /api/me/project
func (h *StudentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetProject(r.Context(), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, view)
}

// GetPages returns the page list and contents entries
// GET /api/me/pages
func (h *StudentHandler) GetPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.service.GetPages(r.Context(), httputil.GetCaller(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, pages)
}

// RenderPage returns one page as PNG
// GET /api/me/pages/{index}
func (h *StudentHandler) RenderPage(w http.ResponseWriter, r *http.Request) {
	index, ok := pageIndex(w, r)
	if !ok {
		return
	}
	png, err := h.service.RenderPage(r.Context(), httputil.GetCaller(r), index)
	if err != nil {
		handleError(w, err)
		return
	}
	respondPNG(w, png)
}

// SaveSection writes one section
// PUT /api/me/sections/{sectionId}
func (h *StudentHandler) SaveSection(w http.ResponseWriter, r *http.Request) {
	var req reportSvc.SaveSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, bodyError(err))
		return
	}

	rec, err := h.service.SaveSection(r.Context(), httputil.GetCaller(r), r.PathValue("sectionId"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rec)
}

// CheckSection reports line usage per page without saving
// POST /api/me/sections/{sectionId}/check
func (h *StudentHandler) CheckSection(w http.ResponseWriter, r *http.Request) {
	var req reportSvc.CheckSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, bodyError(err))
		return
	}

	reports, err := h.service.CheckSection(r.Context(), httputil.GetCaller(r), r.PathValue("sectionId"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"pages": reports})
}

// UploadImages stores images from the multipart field "images"
// POST /api/me/images
func (h *StudentHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		handleError(w, bodyError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	files := make([]reportSvc.UploadedImage, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			handleError(w, fmt.Errorf("%w: open %s: %v", errBadBody, fh.Filename, err))
			return
		}
		defer f.Close()

		contentType, err := sniffContentType(fh, f)
		if err != nil {
			handleError(w, fmt.Errorf("%w: read %s: %v", errBadBody, fh.Filename, err))
			return
		}
		files = append(files, reportSvc.UploadedImage{
			Filename:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Body:        f,
		})
	}

	urls, err := h.service.UploadImages(r.Context(), httputil.GetCaller(r), files)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{"urls": urls})
}

// ExportPDF downloads the full report
// GET /api/me/export.pdf
func (h *StudentHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	caller := httputil.GetCaller(r)
	var buf bytes.Buffer
	if err := h.service.ExportPDF(r.Context(), caller, &buf); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondBinary(w, pdfContentType, reportFilename(caller.RollNumber, caller.ID, "pdf"), buf.Bytes())
}

// ExportSchedule downloads the weekly overview as a workbook
// GET /api/me/schedule.xlsx
func (h *StudentHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	caller := httputil.GetCaller(r)
	var buf bytes.Buffer
	if err := h.service.ExportSchedule(r.Context(), caller, &buf); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondBinary(w, xlsxContentType, reportFilename(caller.RollNumber, caller.ID, "xlsx"), buf.Bytes())
}

// GenerateSchedule builds weekly overview rows
// POST /api/me/schedule/generate
func (h *StudentHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req reportSvc.GenerateScheduleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, bodyError(err))
		return
	}

	rows, err := h.service.GenerateSchedule(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

// ImportSchedule reads rows from the multipart field "file"
// POST /api/me/schedule/import
func (h *StudentHandler) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		handleError(w, bodyError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, _, err := r.FormFile("file")
	if err != nil {
		handleError(w, fmt.Errorf("%w: file is required", errBadBody))
		return
	}
	defer f.Close()

	rows, err := h.service.ImportSchedule(r.Context(), httputil.GetCaller(r), f)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

// sniffContentType trusts the part header and falls back to the first bytes.
func sniffContentType(fh *multipart.FileHeader, f multipart.File) (string, error) {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func reportFilename(rollNumber, id, ext string) string {
	name := rollNumber
	if name == "" {
		name = id
	}
	return fmt.Sprintf("report-%s.%s", name, ext)
}
