package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"reportdesk/internal/domain"
	reportModels "reportdesk/internal/domain/models/report"
	reportSvc "reportdesk/internal/domain/services/report"
)

func TestReviewerListStudents(t *testing.T) {
	f := newFixture(t)
	f.projects.seed("stu-1", map[string]reportModels.StoredSection{
		"abstract": storedSection(t, []string{"a"}, reportModels.StatusApproved, ""),
		"orgInfo":  storedSection(t, []string{"b"}, reportModels.StatusPending, ""),
	})

	got, err := f.reviewer().ListStudents(context.Background(), f.user("rev-1"))
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(ListStudents()) = %d, want the two mentees", len(got))
	}
	if got[0].Student.ID != "stu-1" || got[0].Progress.Approved != 1 || got[0].Progress.Pending != 1 {
		t.Errorf("stu-1 summary = %+v", got[0])
	}
	if got[0].Progress.Percent != 20 {
		t.Errorf("stu-1 percent = %d, want 20", got[0].Progress.Percent)
	}
	if got[1].Student.ID != "stu-2" || got[1].Progress.Percent != 0 {
		t.Errorf("stu-2 summary = %+v", got[1])
	}
}

func TestReviewerOnlySeesMentees(t *testing.T) {
	f := newFixture(t)
	svc := f.reviewer()
	ctx := context.Background()
	other := f.user("rev-2")

	if _, err := svc.GetProject(ctx, other, "stu-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("GetProject() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Review(ctx, other, "stu-1", "abstract", &reportSvc.ReviewRequest{Status: reportModels.StatusApproved}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Review() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.ApproveAll(ctx, other, "stu-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("ApproveAll() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetProject(ctx, f.user("stu-2"), "stu-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("GetProject(student) error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetProject(ctx, f.user("rev-1"), "rev-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetProject(non-student) error = %v, want ErrNotFound", err)
	}
}

func TestReview(t *testing.T) {
	f := newFixture(t)
	f.projects.seed("stu-1", map[string]reportModels.StoredSection{
		"abstract": storedSection(t, []string{"text"}, reportModels.StatusPending, "old note"),
	})
	svc := f.reviewer()
	ctx := context.Background()

	rec, err := svc.Review(ctx, f.user("rev-1"), "stu-1", "abstract", &reportSvc.ReviewRequest{
		Status:  reportModels.StatusRejected,
		Comment: "add references",
	})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if rec.Status != reportModels.StatusRejected || rec.Comment != "add references" {
		t.Errorf("Review() = %+v", rec)
	}

	stored := f.projects.projects["stu-1"].Sections["abstract"]
	if stored.Comment != "add references" || stored.Status != reportModels.StatusRejected {
		t.Errorf("stored = %+v", stored)
	}
	if string(stored.Content) != `["text"]` {
		t.Errorf("content changed to %s", stored.Content)
	}
}

func TestReviewRejects(t *testing.T) {
	tests := []struct {
		name      string
		sectionID string
		req       reportSvc.ReviewRequest
		want      error
	}{
		{"no record", "orgInfo", reportSvc.ReviewRequest{Status: reportModels.StatusApproved}, domain.ErrInvalidTransition},
		{"reviewer cannot set draft", "abstract", reportSvc.ReviewRequest{Status: reportModels.StatusDraft}, domain.ErrInvalidTransition},
		{"missing status", "abstract", reportSvc.ReviewRequest{Comment: "x"}, domain.ErrValidation},
		{"comment too long", "abstract", reportSvc.ReviewRequest{Status: reportModels.StatusRejected, Comment: strings.Repeat("x", 2001)}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.projects.seed("stu-1", map[string]reportModels.StoredSection{
				"abstract": storedSection(t, []string{"text"}, reportModels.StatusPending, ""),
			})
			req := tt.req
			_, err := f.reviewer().Review(context.Background(), f.user("rev-1"), "stu-1", tt.sectionID, &req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Review() error = %v, want %v", err, tt.want)
			}
			if got := f.projects.projects["stu-1"].Sections["abstract"].Status; got != reportModels.StatusPending {
				t.Errorf("abstract status = %s, want unchanged", got)
			}
		})
	}
}

func TestApproveAll(t *testing.T) {
	f := newFixture(t)
	f.projects.seed("stu-1", map[string]reportModels.StoredSection{
		"abstract":       storedSection(t, []string{"a"}, reportModels.StatusPending, "fine"),
		"orgInfo":        storedSection(t, []string{"b"}, reportModels.StatusRejected, ""),
		"weeklyOverview": storedSection(t, []reportModels.ScheduleRow{}, reportModels.StatusDraft, ""),
	})

	res, err := f.reviewer().ApproveAll(context.Background(), f.user("rev-1"), "stu-1")
	if err != nil {
		t.Fatalf("ApproveAll() error = %v", err)
	}
	want := []string{"abstract", "orgInfo", "weeklyOverview"}
	if fmt.Sprint(res.Approved) != fmt.Sprint(want) {
		t.Errorf("Approved = %v, want %v", res.Approved, want)
	}
	if res.Progress.Approved != 3 || res.Progress.Total != 5 || res.Progress.Percent != 60 {
		t.Errorf("Progress = %+v", res.Progress)
	}
	for id, sec := range f.projects.projects["stu-1"].Sections {
		if sec.Status != reportModels.StatusApproved {
			t.Errorf("%s status = %s", id, sec.Status)
		}
	}
	if got := f.projects.projects["stu-1"].Sections["abstract"].Comment; got != "fine" {
		t.Errorf("comment = %q, want kept", got)
	}
}

func TestApproveAllWithoutRecords(t *testing.T) {
	f := newFixture(t)
	res, err := f.reviewer().ApproveAll(context.Background(), f.user("rev-1"), "stu-2")
	if err != nil {
		t.Fatalf("ApproveAll() error = %v", err)
	}
	if len(res.Approved) != 0 || res.Progress.Percent != 0 {
		t.Errorf("ApproveAll() = %+v", res)
	}
	if _, ok := f.projects.projects["stu-2"]; ok {
		t.Error("ApproveAll created a project")
	}
}
