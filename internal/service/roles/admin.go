package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reportdesk/internal/config"
	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"
	reportRepo "reportdesk/internal/domain/repositories/report"
	"reportdesk/internal/domain/services"
	reportSvc "reportdesk/internal/domain/services/report"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/sync/errgroup"
)

// adminService implements the AdminService interface
type adminService struct {
	engine     *Engine
	projects   reportRepo.ProjectRepository
	users      repositories.UserRepository
	classes    repositories.ClassRepository
	authorizer services.ReportAuthorizer
	identity   reportSvc.IdentityAdmin
	objects    reportSvc.ObjectStore
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewAdminService creates a new admin service. identity and objects may be
// nil, in which case deleted students keep their account or uploads.
func NewAdminService(
	engine *Engine,
	projects reportRepo.ProjectRepository,
	users repositories.UserRepository,
	classes repositories.ClassRepository,
	authorizer services.ReportAuthorizer,
	identity reportSvc.IdentityAdmin,
	objects reportSvc.ObjectStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) reportSvc.AdminService {
	return &adminService{
		engine:     engine,
		projects:   projects,
		users:      users,
		classes:    classes,
		authorizer: authorizer,
		identity:   identity,
		objects:    objects,
		txManager:  txManager,
		logger:     logger,
	}
}

// Dashboard aggregates reviewer load, class sizes and student progress.
func (s *adminService) Dashboard(ctx context.Context, caller *models.User) (*reportSvc.Dashboard, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	var (
		reviewers, students []models.User
		classes             []models.Class
		classCounts         map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reviewers, err = s.users.ListByRole(gctx, models.RoleReviewer)
		return err
	})
	g.Go(func() (err error) {
		students, err = s.users.ListByRole(gctx, models.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		classes, err = s.classes.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		classCounts, err = s.classes.CountStudents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	mentees := make(map[string]int, len(reviewers))
	for _, st := range students {
		if st.MentorID != "" {
			mentees[st.MentorID]++
		}
	}

	d := &reportSvc.Dashboard{
		Reviewers: make([]reportSvc.ReviewerLoad, 0, len(reviewers)),
		Classes:   make([]reportSvc.ClassLoad, 0, len(classes)),
	}
	for _, r := range reviewers {
		d.Reviewers = append(d.Reviewers, reportSvc.ReviewerLoad{Reviewer: r, Students: mentees[r.ID]})
	}
	for _, c := range classes {
		d.Classes = append(d.Classes, reportSvc.ClassLoad{Class: c, Students: classCounts[c.ID]})
	}

	summaries, err := s.engine.summaries(ctx, students)
	if err != nil {
		return nil, err
	}
	d.Students = summaries
	return d, nil
}

// GetProject returns any student's report.
func (s *adminService) GetProject(ctx context.Context, caller *models.User, studentID string) (*reportSvc.ProjectView, error) {
	student, err := s.authorizer.CanViewStudent(ctx, caller, studentID)
	if err != nil {
		return nil, err
	}
	return s.engine.view(ctx, student)
}

// RenderPage returns one preview page of any student's report.
func (s *adminService) RenderPage(ctx context.Context, caller *models.User, studentID string, index int) ([]byte, error) {
	student, err := s.authorizer.CanViewStudent(ctx, caller, studentID)
	if err != nil {
		return nil, err
	}
	return s.engine.renderPage(ctx, student, index)
}

// CreateClass creates a department class.
func (s *adminService) CreateClass(ctx context.Context, caller *models.User, req *reportSvc.CreateClassRequest) (*models.Class, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxClassNameLength)),
		validation.Field(&req.Department, validation.Required, validation.RuneLength(1, config.MaxClassNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	class := &models.Class{
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		CreatedBy:  caller.ID,
		CreatedAt:  time.Now(),
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("class created", "id", class.ID, "name", class.Name, "created_by", caller.ID)
	return class, nil
}

// CreateReviewer provisions a mentor. The identity account is created first;
// when the profile insert fails it is removed again so the email stays free.
func (s *adminService) CreateReviewer(ctx context.Context, caller *models.User, req *reportSvc.CreateReviewerRequest) (*models.User, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxNameLength)),
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Password, validation.Required, validation.RuneLength(config.MinPasswordLength, config.MaxPasswordLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if s.identity == nil {
		return nil, fmt.Errorf("create reviewer: identity admin not configured")
	}

	id, err := s.identity.CreateUser(ctx, req.Email, req.Password, map[string]interface{}{
		"name": req.Name,
		"role": string(models.RoleReviewer),
	})
	if err != nil {
		return nil, err
	}

	reviewer := &models.User{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Role:      models.RoleReviewer,
		IsPaid:    true,
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, reviewer); err != nil {
		if derr := s.identity.DeleteUser(ctx, id); derr != nil {
			s.logger.Error("orphaned identity account", "account_id", id, "email", req.Email, "error", derr)
		}
		return nil, err
	}

	s.logger.Info("reviewer created", "id", id, "email", req.Email, "created_by", caller.ID)
	return reviewer, nil
}

// DeleteStudent removes the identity account first, then the project and
// profile in one transaction. A failure up to the commit leaves the student
// in place, so the call can be retried. Uploaded images are removed last and
// a failure there is only logged.
func (s *adminService) DeleteStudent(ctx context.Context, caller *models.User, studentID string) error {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student.Role != models.RoleStudent {
		return &domain.NotFoundError{Message: fmt.Sprintf("student %s not found", studentID)}
	}

	// DeleteUser treats an already missing account as success
	if s.identity == nil {
		s.logger.Warn("identity admin not configured, account kept", "student_id", studentID)
	} else if err := s.identity.DeleteUser(ctx, studentID); err != nil {
		return fmt.Errorf("delete identity account: %w", err)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.projects.DeleteByStudent(txCtx, studentID); err != nil {
			return err
		}
		return s.users.Delete(txCtx, studentID)
	})
	if err != nil {
		return err
	}

	if s.objects != nil {
		if err := s.objects.DeletePrefix(ctx, uploadPrefix(studentID)); err != nil {
			s.logger.Warn("failed to delete uploads", "student_id", studentID, "error", err)
		}
	}

	s.logger.Info("student deleted", "student_id", studentID, "email", student.Email, "deleted_by", caller.ID)
	return nil
}
