package auth

import (
	"context"
	"errors"
	"fmt"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"
)

// MentorAuthorizer implements ReportAuthorizer from user profiles.
// A student sees only their own report, a reviewer sees the students
// assigned to them, and an admin sees everyone.
type MentorAuthorizer struct {
	users repositories.UserRepository
}

// NewMentorAuthorizer creates a new mentor-based authorizer
func NewMentorAuthorizer(users repositories.UserRepository) *MentorAuthorizer {
	return &MentorAuthorizer{users: users}
}

// CanViewStudent checks the caller against the student's mentor.
func (a *MentorAuthorizer) CanViewStudent(ctx context.Context, caller *models.User, studentID string) (*models.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	if caller.Role == models.RoleStudent {
		if caller.ID != studentID {
			return nil, fmt.Errorf("access denied to student %s: %w", studentID, domain.ErrForbidden)
		}
		return caller, nil
	}
	return a.CanReviewStudent(ctx, caller, studentID)
}

// CanReviewStudent allows the assigned mentor and admins.
func (a *MentorAuthorizer) CanReviewStudent(ctx context.Context, caller *models.User, studentID string) (*models.User, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	if caller.Role != models.RoleReviewer && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("role %s cannot review: %w", caller.Role, domain.ErrForbidden)
	}

	student, err := a.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("student %s not found", studentID)}
		}
		return nil, fmt.Errorf("get student for auth: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("student %s not found", studentID)}
	}

	if caller.Role == models.RoleReviewer && student.MentorID != caller.ID {
		return nil, fmt.Errorf("student %s is not assigned to you: %w", studentID, domain.ErrForbidden)
	}
	return student, nil
}

// CanWriteContent requires a paid student. The flag is re-read so a payment
// confirmed mid-session takes effect without a new token.
func (a *MentorAuthorizer) CanWriteContent(ctx context.Context, caller *models.User) error {
	if caller == nil {
		return domain.ErrUnauthorized
	}
	if caller.Role != models.RoleStudent {
		return fmt.Errorf("only students write report content: %w", domain.ErrForbidden)
	}
	paid, err := a.users.IsPaid(ctx, caller.ID)
	if err != nil {
		return fmt.Errorf("check entitlement: %w", err)
	}
	if !paid {
		return &domain.PaymentRequiredError{StudentID: caller.ID}
	}
	return nil
}
