package roles

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	reportModels "reportdesk/internal/domain/models/report"
	"reportdesk/internal/domain/repositories"
	reportRepo "reportdesk/internal/domain/repositories/report"
	"reportdesk/internal/domain/services"
	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/service/report"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// reviewerService implements the ReviewerService interface
type reviewerService struct {
	engine     *Engine
	projects   reportRepo.ProjectRepository
	users      repositories.UserRepository
	authorizer services.ReportAuthorizer
	logger     *slog.Logger
}

// NewReviewerService creates a new reviewer service
func NewReviewerService(
	engine *Engine,
	projects reportRepo.ProjectRepository,
	users repositories.UserRepository,
	authorizer services.ReportAuthorizer,
	logger *slog.Logger,
) reportSvc.ReviewerService {
	return &reviewerService{
		engine:     engine,
		projects:   projects,
		users:      users,
		authorizer: authorizer,
		logger:     logger,
	}
}

// ListStudents returns the caller's mentees with their progress.
func (s *reviewerService) ListStudents(ctx context.Context, caller *models.User) ([]reportSvc.StudentSummary, error) {
	if err := requireRole(caller, models.RoleReviewer); err != nil {
		return nil, err
	}
	students, err := s.users.ListByMentor(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return s.engine.summaries(ctx, students)
}

// GetProject returns a mentee's report.
func (s *reviewerService) GetProject(ctx context.Context, caller *models.User, studentID string) (*reportSvc.ProjectView, error) {
	student, err := s.authorizer.CanReviewStudent(ctx, caller, studentID)
	if err != nil {
		return nil, err
	}
	return s.engine.view(ctx, student)
}

// RenderPage returns one preview page of a mentee's report.
func (s *reviewerService) RenderPage(ctx context.Context, caller *models.User, studentID string, index int) ([]byte, error) {
	student, err := s.authorizer.CanReviewStudent(ctx, caller, studentID)
	if err != nil {
		return nil, err
	}
	return s.engine.renderPage(ctx, student, index)
}

// ExportPDF writes a mentee's report as PDF.
func (s *reviewerService) ExportPDF(ctx context.Context, caller *models.User, studentID string, w io.Writer) error {
	student, err := s.authorizer.CanReviewStudent(ctx, caller, studentID)
	if err != nil {
		return err
	}
	return s.engine.exportPDF(ctx, student, w)
}

// Review approves or rejects one section. Content is never touched and the
// comment replaces the previous one.
func (s *reviewerService) Review(ctx context.Context, caller *models.User, studentID, sectionID string, req *reportSvc.ReviewRequest) (*reportModels.SectionRecord, error) {
	if err := s.validateReviewRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	student, err := s.authorizer.CanReviewStudent(ctx, caller, studentID)
	if err != nil {
		return nil, err
	}

	st, _, _, err := s.engine.load(ctx, student)
	if err != nil {
		return nil, err
	}
	rec, err := st.PutReview(sectionID, req.Status, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.projects.WriteReview(ctx, studentID, sectionID, rec.Status, rec.Comment); err != nil {
		return nil, err
	}

	s.logger.Info("section reviewed",
		"student_id", studentID,
		"section_id", sectionID,
		"status", rec.Status,
		"reviewer_id", caller.ID,
	)
	return &rec, nil
}

// ApproveAll approves every stored section of a mentee's report.
func (s *reviewerService) ApproveAll(ctx context.Context, caller *models.User, studentID string) (*reportSvc.ApproveAllResult, error) {
	student, err := s.authorizer.CanReviewStudent(ctx, caller, studentID)
	if err != nil {
		return nil, err
	}

	st, _, _, err := s.engine.load(ctx, student)
	if err != nil {
		return nil, err
	}
	ids := st.ApproveAll()
	if len(ids) > 0 {
		if err := s.projects.ApproveSections(ctx, studentID, ids); err != nil {
			return nil, err
		}
	}

	s.logger.Info("all sections approved",
		"student_id", studentID,
		"count", len(ids),
		"reviewer_id", caller.ID,
	)
	return &reportSvc.ApproveAllResult{Approved: ids, Progress: report.ComputeProgress(st)}, nil
}

// validateReviewRequest validates a review request
func (s *reviewerService) validateReviewRequest(req *reportSvc.ReviewRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Status, validation.Required),
		validation.Field(&req.Comment, validation.RuneLength(0, config.MaxCommentLength)),
	)
}
