package report

import (
	"fmt"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/report"
)

// StudentTransition checks a student save. Students may only set draft or
// pending, and an approved section stays approved until a reviewer changes it.
func StudentTransition(sectionID string, from models.Status, stored bool, to models.Status) error {
	if to != models.StatusDraft && to != models.StatusPending {
		return &domain.InvalidTransitionError{
			SectionID: sectionID,
			To:        string(to),
			Reason:    "students can only save as draft or submit for review",
		}
	}
	if stored && from == models.StatusApproved {
		return &domain.InvalidTransitionError{
			SectionID: sectionID,
			From:      string(from),
			To:        string(to),
			Reason:    "section is approved and locked",
		}
	}
	return nil
}

// ReviewerTransition checks a reviewer decision. Only approved and rejected
// are reviewer states, and there must be a record to review.
func ReviewerTransition(sectionID string, from models.Status, stored bool, to models.Status) error {
	if to != models.StatusApproved && to != models.StatusRejected {
		return &domain.InvalidTransitionError{
			SectionID: sectionID,
			From:      string(from),
			To:        string(to),
			Reason:    "reviewers can only approve or reject",
		}
	}
	if !stored {
		return &domain.InvalidTransitionError{
			SectionID: sectionID,
			To:        string(to),
			Reason:    "section has not been written yet",
		}
	}
	return nil
}

// ComputeProgress aggregates the schema's progress sections. Sections
// without a record count as draft.
func ComputeProgress(st *Store) models.Progress {
	p := models.Progress{}
	for _, sec := range st.schema.ProgressSections() {
		p.Total++
		if !st.Has(sec.ID) {
			continue
		}
		switch st.Get(sec.ID).Status {
		case models.StatusApproved:
			p.Approved++
		case models.StatusPending:
			p.Pending++
		case models.StatusRejected:
			p.Rejected++
		}
	}
	p.Draft = p.Total - p.Approved - p.Pending - p.Rejected
	p.Percent = percentOf(p.Approved, p.Total)
	p.Label = ProgressLabel(p.Percent)
	return p
}

// Breakdown lists progress section titles by status.
func Breakdown(st *Store) models.StatusBreakdown {
	b := models.StatusBreakdown{
		Draft:    []string{},
		Pending:  []string{},
		Approved: []string{},
		Rejected: []string{},
	}
	for _, sec := range st.schema.ProgressSections() {
		switch st.Get(sec.ID).Status {
		case models.StatusApproved:
			b.Approved = append(b.Approved, sec.Title)
		case models.StatusPending:
			b.Pending = append(b.Pending, sec.Title)
		case models.StatusRejected:
			b.Rejected = append(b.Rejected, sec.Title)
		default:
			b.Draft = append(b.Draft, sec.Title)
		}
	}
	return b
}

// ProgressLabel is the coarse dashboard label for a percentage.
func ProgressLabel(percent int) string {
	switch percent {
	case 0:
		return "not started"
	case 100:
		return "completed"
	default:
		return fmt.Sprintf("%d%%", percent)
	}
}

// percentOf rounds half up in integer arithmetic and clamps to [0, 100].
func percentOf(n, total int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	if n >= total {
		return 100
	}
	p := (200*n + total) / (2 * total)
	if p > 99 {
		// only a fully approved report reads as 100
		p = 99
	}
	return p
}
