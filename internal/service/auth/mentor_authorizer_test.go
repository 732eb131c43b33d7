package auth

import (
	"context"
	"errors"
	"testing"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
)

// mockUserRepo serves profiles from a map.
type mockUserRepo struct {
	users map[string]*models.User
	err   error
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) IsPaid(ctx context.Context, id string) (bool, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsPaid, nil
}

func (m *mockUserRepo) Create(context.Context, *models.User) error { return nil }
func (m *mockUserRepo) ListByMentor(context.Context, string) ([]models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) ListByRole(context.Context, models.Role) ([]models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Delete(context.Context, string) error { return nil }

func fixtures() (*mockUserRepo, map[string]*models.User) {
	u := map[string]*models.User{
		"stu-1": {ID: "stu-1", Role: models.RoleStudent, MentorID: "rev-1", IsPaid: true},
		"stu-2": {ID: "stu-2", Role: models.RoleStudent, MentorID: "rev-2"},
		"rev-1": {ID: "rev-1", Role: models.RoleReviewer},
		"admin": {ID: "admin", Role: models.RoleAdmin},
	}
	return &mockUserRepo{users: u}, u
}

func TestCanViewStudent(t *testing.T) {
	repo, u := fixtures()
	a := NewMentorAuthorizer(repo)

	tests := []struct {
		name    string
		caller  *models.User
		student string
		wantErr error
	}{
		{"own report", u["stu-1"], "stu-1", nil},
		{"other student", u["stu-1"], "stu-2", domain.ErrForbidden},
		{"assigned mentor", u["rev-1"], "stu-1", nil},
		{"unassigned mentor", u["rev-1"], "stu-2", domain.ErrForbidden},
		{"admin", u["admin"], "stu-2", nil},
		{"unknown student", u["admin"], "nobody", domain.ErrNotFound},
		{"reviewer is not a student", u["admin"], "rev-1", domain.ErrNotFound},
		{"anonymous", nil, "stu-1", domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.CanViewStudent(context.Background(), tt.caller, tt.student)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CanViewStudent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CanViewStudent() error = %v", err)
			}
			if got.ID != tt.student {
				t.Errorf("CanViewStudent() = %s, want %s", got.ID, tt.student)
			}
		})
	}
}

func TestCanReviewStudentRejectsStudents(t *testing.T) {
	repo, u := fixtures()
	_, err := NewMentorAuthorizer(repo).CanReviewStudent(context.Background(), u["stu-1"], "stu-1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("CanReviewStudent() error = %v, want ErrForbidden", err)
	}
}

func TestCanWriteContent(t *testing.T) {
	repo, u := fixtures()
	a := NewMentorAuthorizer(repo)

	if err := a.CanWriteContent(context.Background(), u["stu-1"]); err != nil {
		t.Errorf("paid student: error = %v", err)
	}
	if err := a.CanWriteContent(context.Background(), u["stu-2"]); !errors.Is(err, domain.ErrPaymentRequired) {
		t.Errorf("unpaid student: error = %v, want ErrPaymentRequired", err)
	}
	if err := a.CanWriteContent(context.Background(), u["rev-1"]); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("reviewer: error = %v, want ErrForbidden", err)
	}

	repo.err = errors.New("db down")
	err := a.CanWriteContent(context.Background(), u["stu-1"])
	if err == nil || errors.Is(err, domain.ErrPaymentRequired) {
		t.Errorf("lookup failure: error = %v, want infrastructure error", err)
	}
}
