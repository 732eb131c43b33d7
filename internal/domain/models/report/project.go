package report

import (
	"encoding/json"
	"time"
)

// Status is the review state of a section record.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the four review states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// StoredSection is the persisted shape of one entry in Project.Sections.
type StoredSection struct {
	Content json.RawMessage `json:"content,omitempty"`
	Status  Status          `json:"status"`
	Comment string          `json:"comment,omitempty"`
}

// SectionRecord is a resolved section: stored content decoded against the
// schema, or schema defaults when Stored is false.
type SectionRecord struct {
	SectionID string  `json:"section_id"`
	Content   Content `json:"content"`
	Status    Status  `json:"status"`
	Comment   string  `json:"comment,omitempty"`
	Stored    bool    `json:"stored"`
}

// Project is a student's report. Sections is sparse.
type Project struct {
	ID         string                   `json:"id"`
	StudentID  string                   `json:"student_id"`
	ReviewerID string                   `json:"reviewer_id,omitempty"`
	Sections   map[string]StoredSection `json:"sections"`
	Images     []string                 `json:"images"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// EmptyProject is the in-memory stand-in for a student who has never saved.
func EmptyProject(studentID, reviewerID string) *Project {
	return &Project{
		StudentID:  studentID,
		ReviewerID: reviewerID,
		Sections:   map[string]StoredSection{},
		Images:     []string{},
	}
}
