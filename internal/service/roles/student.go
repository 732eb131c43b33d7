package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	reportModels "reportdesk/internal/domain/models/report"
	"reportdesk/internal/domain/repositories"
	reportRepo "reportdesk/internal/domain/repositories/report"
	"reportdesk/internal/domain/services"
	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/schema"
	"reportdesk/internal/service/render"
	"reportdesk/internal/service/report"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// imageTypes maps accepted upload content types to object key extensions.
var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// studentService implements the StudentService interface
type studentService struct {
	engine     *Engine
	projects   reportRepo.ProjectRepository
	authorizer services.ReportAuthorizer
	objects    reportSvc.ObjectStore
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewStudentService creates a new student service
func NewStudentService(
	engine *Engine,
	projects reportRepo.ProjectRepository,
	authorizer services.ReportAuthorizer,
	objects reportSvc.ObjectStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) reportSvc.StudentService {
	return &studentService{
		engine:     engine,
		projects:   projects,
		authorizer: authorizer,
		objects:    objects,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetProject returns the caller's report with progress.
func (s *studentService) GetProject(ctx context.Context, caller *models.User) (*reportSvc.ProjectView, error) {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return nil, err
	}
	return s.engine.view(ctx, caller)
}

// GetPages returns the page list of the caller's report.
func (s *studentService) GetPages(ctx context.Context, caller *models.User) (*reportSvc.PagesView, error) {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return nil, err
	}
	return s.engine.pages(ctx, caller)
}

// RenderPage returns one preview page.
func (s *studentService) RenderPage(ctx context.Context, caller *models.User, index int) ([]byte, error) {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return nil, err
	}
	return s.engine.renderPage(ctx, caller, index)
}

// SaveSection validates and writes one section. Entitlement is checked
// before the project is read; shape, status and capacity before anything
// is written. The project is created on first save.
func (s *studentService) SaveSection(ctx context.Context, caller *models.User, sectionID string, req *reportSvc.SaveSectionRequest) (*reportModels.SectionRecord, error) {
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.authorizer.CanWriteContent(ctx, caller); err != nil {
		return nil, err
	}

	st, _, exists, err := s.engine.load(ctx, caller)
	if err != nil {
		return nil, err
	}
	rec, err := st.PutContent(sectionID, req.Content, req.Status)
	if err != nil {
		return nil, err
	}

	sec, _ := s.engine.Schema().Section(sectionID)
	if err := validateContentLimits(sec, rec.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if sec.Kind == reportModels.KindText {
		if _, err := report.CheckPages(sec, rec.Content.Pages, s.engine.Schema().Layout()); err != nil {
			return nil, err
		}
	}

	normalized, err := json.Marshal(rec.Content)
	if err != nil {
		return nil, fmt.Errorf("encode section content: %w", err)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if !exists {
			if _, err := s.projects.Ensure(txCtx, caller.ID, caller.MentorID); err != nil {
				return err
			}
		}
		return s.projects.WriteSection(txCtx, caller.ID, sectionID, normalized, rec.Status)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("section saved",
		"student_id", caller.ID,
		"section_id", sectionID,
		"status", rec.Status,
		"created_project", !exists,
	)
	return &rec, nil
}

// CheckSection estimates the lines of a text section without saving.
func (s *studentService) CheckSection(ctx context.Context, caller *models.User, sectionID string, req *reportSvc.CheckSectionRequest) ([]reportModels.CapacityReport, error) {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return nil, err
	}
	sec, ok := s.engine.Schema().Section(sectionID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("section %s not found", sectionID)}
	}
	if sec.Kind != reportModels.KindText {
		return nil, &domain.ShapeMismatchError{SectionID: sectionID, Kind: string(sec.Kind), Reason: "only text sections have a line budget"}
	}
	content, err := report.ParseContent(sec, req.Content)
	if err != nil {
		return nil, err
	}

	// the overflow is reported per page, not as an error
	reports, _ := report.CheckPages(sec, content.Pages, s.engine.Schema().Layout())
	return reports, nil
}

// UploadImages stores the files and adds their URLs to the project's
// image pool. Section content is not touched.
func (s *studentService) UploadImages(ctx context.Context, caller *models.User, files []reportSvc.UploadedImage) ([]string, error) {
	if err := validateUploads(files); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.authorizer.CanWriteContent(ctx, caller); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		contentType := strings.ToLower(f.ContentType)
		key := path.Join(uploadPrefix(caller.ID), uuid.NewString()+imageTypes[contentType])
		url, err := s.objects.Upload(ctx, key, contentType, f.Body)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Filename, err)
		}
		urls = append(urls, url)
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.projects.Ensure(txCtx, caller.ID, caller.MentorID); err != nil {
			return err
		}
		return s.projects.AppendImages(txCtx, caller.ID, urls)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("images uploaded", "student_id", caller.ID, "count", len(urls))
	return urls, nil
}

// ExportPDF writes the caller's report as PDF.
func (s *studentService) ExportPDF(ctx context.Context, caller *models.User, w io.Writer) error {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return err
	}
	return s.engine.exportPDF(ctx, caller, w)
}

// ExportSchedule writes the weekly overview table as a workbook.
func (s *studentService) ExportSchedule(ctx context.Context, caller *models.User, w io.Writer) error {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return err
	}
	sec := scheduleSection(s.engine.Schema())
	if sec == nil {
		return &domain.NotFoundError{Message: "report has no schedule table"}
	}
	st, _, _, err := s.engine.load(ctx, caller)
	if err != nil {
		return err
	}
	return render.WriteScheduleWorkbook(w, st.Get(sec.ID).Content.Rows)
}

// GenerateSchedule builds rows for the editor. Nothing is saved.
func (s *studentService) GenerateSchedule(ctx context.Context, req *reportSvc.GenerateScheduleRequest) ([]reportModels.ScheduleRow, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Start, validation.Required, validation.Date(report.ScheduleDateLayout)),
		validation.Field(&req.Weeks, validation.Required, validation.Min(1), validation.Max(52)),
		validation.Field(&req.DaysPerWeek, validation.Required, validation.Min(1), validation.Max(6)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	start, _ := time.Parse(report.ScheduleDateLayout, req.Start)
	return report.GenerateSchedule(start, req.Weeks, req.DaysPerWeek)
}

// ImportSchedule reads rows from a workbook for the editor. Nothing is saved.
func (s *studentService) ImportSchedule(ctx context.Context, caller *models.User, r io.Reader) ([]reportModels.ScheduleRow, error) {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return nil, err
	}
	rows, err := render.ReadScheduleWorkbook(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validation.Validate(rows, validation.Length(0, config.MaxScheduleRows)); err != nil {
		return nil, fmt.Errorf("%w: rows %v", domain.ErrValidation, err)
	}
	return rows, nil
}

// validateSaveRequest validates a save section request
func (s *studentService) validateSaveRequest(req *reportSvc.SaveSectionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Status, validation.Required),
	)
}

// validateContentLimits bounds what fits in one section beyond its shape.
func validateContentLimits(sec *schema.Section, c reportModels.Content) error {
	switch c.Kind {
	case reportModels.KindText:
		return validation.Validate(c.Pages, validation.Length(0, config.MaxTextPages))
	case reportModels.KindImage:
		return validation.Validate(c.Images, validation.Length(0, config.MaxImagesPerSection))
	case reportModels.KindTable:
		if err := validation.Validate(c.Rows, validation.Length(0, config.MaxScheduleRows)); err != nil {
			return err
		}
		for i, row := range c.Rows {
			if err := validation.Validate(row.Date, validation.Date(report.ScheduleDateLayout)); err != nil {
				return fmt.Errorf("row %d date: %v", i+1, err)
			}
		}
	case reportModels.KindForm:
		for _, f := range sec.Fields {
			if f.MaxLength == 0 {
				continue
			}
			if err := validation.Validate(c.Form[f.Key], validation.RuneLength(0, f.MaxLength)); err != nil {
				return fmt.Errorf("%s: %v", f.Key, err)
			}
		}
	}
	return nil
}

func validateUploads(files []reportSvc.UploadedImage) error {
	if err := validation.Validate(files, validation.Required, validation.Length(1, config.MaxImagesPerUpload)); err != nil {
		return fmt.Errorf("images: %v", err)
	}
	for _, f := range files {
		if _, ok := imageTypes[strings.ToLower(f.ContentType)]; !ok {
			return fmt.Errorf("%s: unsupported type %q", f.Filename, f.ContentType)
		}
		if f.Size > config.MaxImageBytes {
			return fmt.Errorf("%s: larger than %d bytes", f.Filename, config.MaxImageBytes)
		}
	}
	return nil
}

// uploadPrefix is the object key prefix of a student's images.
func uploadPrefix(studentID string) string {
	return "reports/" + studentID + "/"
}

// scheduleSection is the first table section in document order.
func scheduleSection(s *schema.Schema) *schema.Section {
	for _, sec := range s.OrderedLeaves() {
		if sec.Kind == reportModels.KindTable {
			return sec
		}
	}
	return nil
}

func requireRole(caller *models.User, roles ...models.Role) error {
	if caller == nil {
		return domain.ErrUnauthorized
	}
	for _, r := range roles {
		if caller.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %s not allowed: %w", caller.Role, domain.ErrForbidden)
}
