package report

import (
	"context"
	"encoding/json"

	"reportdesk/internal/domain/models/report"
)

// ProjectRepository persists one report project per student. Section writes
// touch a single field of a single section so concurrent edits of different
// sections never clobber each other.
type ProjectRepository interface {
	// GetByStudent returns domain.ErrNotFound if the student never saved.
	GetByStudent(ctx context.Context, studentID string) (*report.Project, error)

	// Ensure creates the project on first write. Existing projects are
	// returned unchanged.
	Ensure(ctx context.Context, studentID, reviewerID string) (*report.Project, error)

	// WriteSection sets content and status of one section, keeping its comment.
	WriteSection(ctx context.Context, studentID, sectionID string, content json.RawMessage, status report.Status) error

	// WriteReview sets status and comment of one existing section. A section
	// without a record yields a *domain.InvalidTransitionError.
	WriteReview(ctx context.Context, studentID, sectionID string, status report.Status, comment string) error

	// ApproveSections marks the given sections approved in one statement.
	ApproveSections(ctx context.Context, studentID string, sectionIDs []string) error

	// AppendImages merges urls into the image pool without duplicates.
	AppendImages(ctx context.Context, studentID string, urls []string) error

	ListByStudents(ctx context.Context, studentIDs []string) ([]report.Project, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}
