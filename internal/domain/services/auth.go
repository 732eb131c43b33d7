package services

import (
	"context"

	"reportdesk/internal/domain/models"
)

// ReportAuthorizer decides who may touch which student's report.
// Identity is established by the middleware before services are called.
type ReportAuthorizer interface {
	// CanViewStudent returns the student's profile if caller may see their
	// report: the student themself, their assigned mentor, or an admin.
	CanViewStudent(ctx context.Context, caller *models.User, studentID string) (*models.User, error)

	// CanReviewStudent is CanViewStudent restricted to the assigned mentor
	// and admins.
	CanReviewStudent(ctx context.Context, caller *models.User, studentID string) (*models.User, error)

	// CanWriteContent gates section writes and uploads on the student's
	// entitlement. It never reads the project.
	CanWriteContent(ctx context.Context, caller *models.User) error
}
