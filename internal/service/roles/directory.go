package roles

import (
	"context"
	"fmt"

	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"
	reportSvc "reportdesk/internal/domain/services/report"
)

type directoryService struct {
	users   repositories.UserRepository
	classes repositories.ClassRepository
}

// NewDirectoryService serves profile reads and the public reviewer and class
// lists shown before a student is enrolled.
func NewDirectoryService(users repositories.UserRepository, classes repositories.ClassRepository) reportSvc.DirectoryService {
	return &directoryService{users: users, classes: classes}
}

// Profile re-reads the caller so a mentor or class change made during the
// session is visible.
func (s *directoryService) Profile(ctx context.Context, caller *models.User) (*models.User, error) {
	if err := requireRole(caller, models.RoleStudent, models.RoleReviewer, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, caller.ID)
}

// ListReviewers exposes id and name only.
func (s *directoryService) ListReviewers(ctx context.Context) ([]reportSvc.DirectoryEntry, error) {
	reviewers, err := s.users.ListByRole(ctx, models.RoleReviewer)
	if err != nil {
		return nil, fmt.Errorf("list reviewers: %w", err)
	}
	out := make([]reportSvc.DirectoryEntry, 0, len(reviewers))
	for _, r := range reviewers {
		out = append(out, reportSvc.DirectoryEntry{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (s *directoryService) ListClasses(ctx context.Context) ([]reportSvc.DirectoryEntry, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	out := make([]reportSvc.DirectoryEntry, 0, len(classes))
	for _, c := range classes {
		out = append(out, reportSvc.DirectoryEntry{ID: c.ID, Name: c.Name})
	}
	return out, nil
}
