package report

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/models/report"
)

// SaveSectionRequest is a student write of one section.
type SaveSectionRequest struct {
	Content json.RawMessage `json:"content"`
	Status  report.Status   `json:"status"`
}

// CheckSectionRequest asks for a capacity report without writing.
type CheckSectionRequest struct {
	Content json.RawMessage `json:"content"`
}

// ReviewRequest is a reviewer decision on one section.
type ReviewRequest struct {
	Status  report.Status `json:"status"`
	Comment string        `json:"comment"`
}

// GenerateScheduleRequest builds weekly overview rows.
type GenerateScheduleRequest struct {
	Start       string `json:"start"` // 2006-01-02
	Weeks       int    `json:"weeks"`
	DaysPerWeek int    `json:"days_per_week"`
}

// CreateClassRequest creates a department class.
type CreateClassRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// CreateReviewerRequest provisions a mentor account.
type CreateReviewerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DirectoryEntry is the public view of a reviewer or a class, as listed on
// the registration form.
type DirectoryEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UploadedImage is one file of a multipart upload.
type UploadedImage struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProjectView is a student's report resolved against the schema.
type ProjectView struct {
	StudentID  string                 `json:"student_id"`
	ReviewerID string                 `json:"reviewer_id,omitempty"`
	Sections   []report.SectionRecord `json:"sections"` // document order
	Images     []string               `json:"images"`
	Progress   report.Progress        `json:"progress"`
	Breakdown  report.StatusBreakdown `json:"breakdown"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

// PagesView is the page sequence plus the contents entries.
type PagesView struct {
	Pages    []report.Page     `json:"pages"`
	Contents []report.TOCEntry `json:"contents"`
}

// StudentSummary is one row of a reviewer's or admin's student list.
type StudentSummary struct {
	Student  models.User     `json:"student"`
	Progress report.Progress `json:"progress"`
}

// ApproveAllResult lists the sections a bulk approval touched.
type ApproveAllResult struct {
	Approved []string        `json:"approved"`
	Progress report.Progress `json:"progress"`
}

// ReviewerLoad is the number of students assigned to one reviewer.
type ReviewerLoad struct {
	Reviewer models.User `json:"reviewer"`
	Students int         `json:"students"`
}

// ClassLoad is the number of students in one class.
type ClassLoad struct {
	Class    models.Class `json:"class"`
	Students int          `json:"students"`
}

// Dashboard is the department-wide overview.
type Dashboard struct {
	Reviewers []ReviewerLoad   `json:"reviewers"`
	Classes   []ClassLoad      `json:"classes"`
	Students  []StudentSummary `json:"students"`
}

// StudentService is the student façade over the report engine.
type StudentService interface {
	GetProject(ctx context.Context, caller *models.User) (*ProjectView, error)
	GetPages(ctx context.Context, caller *models.User) (*PagesView, error)
	// RenderPage returns the PNG of page index of the caller's report.
	RenderPage(ctx context.Context, caller *models.User, index int) ([]byte, error)
	SaveSection(ctx context.Context, caller *models.User, sectionID string, req *SaveSectionRequest) (*report.SectionRecord, error)
	CheckSection(ctx context.Context, caller *models.User, sectionID string, req *CheckSectionRequest) ([]report.CapacityReport, error)
	UploadImages(ctx context.Context, caller *models.User, files []UploadedImage) ([]string, error)
	ExportPDF(ctx context.Context, caller *models.User, w io.Writer) error
	ExportSchedule(ctx context.Context, caller *models.User, w io.Writer) error
	GenerateSchedule(ctx context.Context, req *GenerateScheduleRequest) ([]report.ScheduleRow, error)
	// ImportSchedule reads rows from an uploaded workbook without saving them.
	ImportSchedule(ctx context.Context, caller *models.User, r io.Reader) ([]report.ScheduleRow, error)
}

// ReviewerService is the mentor façade. Every call checks that the caller
// mentors the student.
type ReviewerService interface {
	ListStudents(ctx context.Context, caller *models.User) ([]StudentSummary, error)
	GetProject(ctx context.Context, caller *models.User, studentID string) (*ProjectView, error)
	RenderPage(ctx context.Context, caller *models.User, studentID string, index int) ([]byte, error)
	ExportPDF(ctx context.Context, caller *models.User, studentID string, w io.Writer) error
	Review(ctx context.Context, caller *models.User, studentID, sectionID string, req *ReviewRequest) (*report.SectionRecord, error)
	ApproveAll(ctx context.Context, caller *models.User, studentID string) (*ApproveAllResult, error)
}

// AdminService is the head-of-department façade.
type AdminService interface {
	Dashboard(ctx context.Context, caller *models.User) (*Dashboard, error)
	GetProject(ctx context.Context, caller *models.User, studentID string) (*ProjectView, error)
	RenderPage(ctx context.Context, caller *models.User, studentID string, index int) ([]byte, error)
	CreateClass(ctx context.Context, caller *models.User, req *CreateClassRequest) (*models.Class, error)
	// CreateReviewer creates the identity account and the reviewer profile.
	CreateReviewer(ctx context.Context, caller *models.User, req *CreateReviewerRequest) (*models.User, error)
	// DeleteStudent removes the identity account, the profile and the project.
	DeleteStudent(ctx context.Context, caller *models.User, studentID string) error
}

// DirectoryService serves the caller's own profile and the public reviewer
// and class lists.
type DirectoryService interface {
	Profile(ctx context.Context, caller *models.User) (*models.User, error)
	ListReviewers(ctx context.Context) ([]DirectoryEntry, error)
	ListClasses(ctx context.Context) ([]DirectoryEntry, error)
}
