package repositories

import (
	"context"

	"reportdesk/internal/domain/models"
)

// UserRepository stores user profiles. The id of every profile is the
// identity provider's account id.
type UserRepository interface {
	// GetByID returns domain.ErrNotFound when no profile exists.
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	ListByMentor(ctx context.Context, mentorID string) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// IsPaid is the entitlement lookup for report content.
	IsPaid(ctx context.Context, studentID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ClassRepository stores department classes.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	List(ctx context.Context) ([]models.Class, error)
	// CountStudents returns student counts keyed by class id.
	CountStudents(ctx context.Context) (map[string]int, error)
}
