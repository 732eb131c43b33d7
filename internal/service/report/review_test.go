package report

import (
	"errors"
	"fmt"
	"testing"

	"reportdesk/internal/domain"
	reportModels "reportdesk/internal/domain/models/report"
)

func TestStudentTransition(t *testing.T) {
	tests := []struct {
		from    reportModels.Status
		stored  bool
		to      reportModels.Status
		wantErr bool
	}{
		{"", false, reportModels.StatusDraft, false},
		{"", false, reportModels.StatusPending, false},
		{reportModels.StatusDraft, true, reportModels.StatusPending, false},
		{reportModels.StatusPending, true, reportModels.StatusDraft, false},
		{reportModels.StatusRejected, true, reportModels.StatusPending, false},
		{reportModels.StatusApproved, true, reportModels.StatusPending, true},
		{reportModels.StatusApproved, true, reportModels.StatusDraft, true},
		{reportModels.StatusDraft, true, reportModels.StatusApproved, true},
		{"", false, reportModels.StatusRejected, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			err := StudentTransition("abstract", tt.from, tt.stored, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("StudentTransition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestReviewerTransition(t *testing.T) {
	tests := []struct {
		from    reportModels.Status
		stored  bool
		to      reportModels.Status
		wantErr bool
	}{
		{reportModels.StatusPending, true, reportModels.StatusApproved, false},
		{reportModels.StatusPending, true, reportModels.StatusRejected, false},
		{reportModels.StatusApproved, true, reportModels.StatusRejected, false},
		{reportModels.StatusDraft, true, reportModels.StatusApproved, false},
		{reportModels.StatusPending, true, reportModels.StatusDraft, true},
		{"", false, reportModels.StatusApproved, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			err := ReviewerTransition("abstract", tt.from, tt.stored, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReviewerTransition() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Scenario E: approve-all over five records of twenty progress sections.
func TestApproveAllProgress(t *testing.T) {
	s := flatSchema(t, 20)
	p := reportModels.EmptyProject("stu-1", "rev-1")
	for i := 1; i <= 5; i++ {
		p.Sections[fmt.Sprintf("s%d", i)] = stored(t, []string{"x"}, reportModels.StatusPending)
	}
	st := NewStore(s, p)

	if ids := st.ApproveAll(); len(ids) != 5 {
		t.Fatalf("ApproveAll() approved %d, want 5", len(ids))
	}
	got := ComputeProgress(st)
	if got.Percent != 25 {
		t.Errorf("Percent = %d, want 25", got.Percent)
	}
	if got.Approved != 5 || got.Draft != 15 || got.Total != 20 {
		t.Errorf("ComputeProgress() = %+v", got)
	}
	if got.Label != "25%" {
		t.Errorf("Label = %q, want 25%%", got.Label)
	}
}

func TestComputeProgressBounds(t *testing.T) {
	statuses := []reportModels.Status{
		reportModels.StatusApproved,
		reportModels.StatusPending,
		reportModels.StatusRejected,
		reportModels.StatusDraft,
	}
	for total := 1; total <= 12; total++ {
		s := flatSchema(t, total)
		for approved := 0; approved <= total; approved++ {
			p := reportModels.EmptyProject("stu-1", "rev-1")
			for i := 1; i <= total; i++ {
				status := statuses[1+i%3]
				if i <= approved {
					status = reportModels.StatusApproved
				}
				p.Sections[fmt.Sprintf("s%d", i)] = stored(t, []string{"x"}, status)
			}
			got := ComputeProgress(NewStore(s, p))
			if got.Percent < 0 || got.Percent > 100 {
				t.Fatalf("%d/%d: Percent = %d out of range", approved, total, got.Percent)
			}
			if (got.Percent == 100) != (approved == total) {
				t.Errorf("%d/%d: Percent = %d, want 100 only when all approved", approved, total, got.Percent)
			}
			if got.Approved+got.Pending+got.Rejected+got.Draft != got.Total {
				t.Errorf("%d/%d: counts %+v do not add up", approved, total, got)
			}
		}
	}
}

func TestComputeProgressIgnoresUntrackedRecords(t *testing.T) {
	s := testSchema(t)
	p := reportModels.EmptyProject("stu-1", "rev-1")
	p.Sections["legacyDeclaration"] = stored(t, []string{"x"}, reportModels.StatusApproved)
	p.Sections["abstract"] = stored(t, []string{"x"}, reportModels.StatusApproved)

	got := ComputeProgress(NewStore(s, p))
	if got.Total != len(s.ProgressSections()) {
		t.Errorf("Total = %d, want %d", got.Total, len(s.ProgressSections()))
	}
	if got.Approved != 1 {
		t.Errorf("Approved = %d, want 1", got.Approved)
	}
}

func TestProgressLabel(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "not started"},
		{1, "1%"},
		{67, "67%"},
		{100, "completed"},
	}
	for _, tt := range tests {
		if got := ProgressLabel(tt.percent); got != tt.want {
			t.Errorf("ProgressLabel(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	tests := []struct {
		n, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{5, 20, 25},
		{199, 200, 99},
		{200, 200, 100},
	}
	for _, tt := range tests {
		if got := percentOf(tt.n, tt.total); got != tt.want {
			t.Errorf("percentOf(%d, %d) = %d, want %d", tt.n, tt.total, got, tt.want)
		}
	}
}

func TestBreakdown(t *testing.T) {
	s := testSchema(t)
	p := reportModels.EmptyProject("stu-1", "rev-1")
	p.Sections["abstract"] = stored(t, []string{"x"}, reportModels.StatusApproved)
	p.Sections["orgInfo"] = stored(t, []string{"x"}, reportModels.StatusRejected)
	p.Sections["intro_main"] = stored(t, []string{"x"}, reportModels.StatusPending)

	b := Breakdown(NewStore(s, p))
	if len(b.Approved) != 1 || b.Approved[0] != "Abstract" {
		t.Errorf("Approved = %v", b.Approved)
	}
	if len(b.Rejected) != 1 || len(b.Pending) != 1 {
		t.Errorf("Rejected = %v, Pending = %v", b.Rejected, b.Pending)
	}
	if len(b.Draft) != len(s.ProgressSections())-3 {
		t.Errorf("len(Draft) = %d, want %d", len(b.Draft), len(s.ProgressSections())-3)
	}
}
