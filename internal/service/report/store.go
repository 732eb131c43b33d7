package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	reportModels "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

// Store is an in-memory snapshot of one project's section records, resolved
// against the schema. It never talks to persistence; callers write through
// the repository with the records it returns.
type Store struct {
	schema  *schema.Schema
	records map[string]reportModels.SectionRecord
	profile map[string]string
}

// StoreOption customizes defaults.
type StoreOption func(*Store)

// WithProfile fills form fields that declare a profile attribute.
func WithProfile(u *models.User) StoreOption {
	return func(s *Store) {
		if u == nil {
			return
		}
		s.profile = map[string]string{
			"name":        u.Name,
			"roll_number": u.RollNumber,
			"email":       u.Email,
		}
	}
}

// NewStore resolves the stored sections of p. Entries for containers are
// dropped. Entries whose stored content no longer decodes keep their status
// and fall back to default content.
func NewStore(s *schema.Schema, p *reportModels.Project, opts ...StoreOption) *Store {
	st := &Store{
		schema:  s,
		records: make(map[string]reportModels.SectionRecord),
	}
	for _, opt := range opts {
		opt(st)
	}
	if p == nil {
		return st
	}

	for id, stored := range p.Sections {
		if s.IsContainer(id) {
			continue
		}
		rec := reportModels.SectionRecord{
			SectionID: id,
			Status:    stored.Status,
			Comment:   stored.Comment,
			Stored:    true,
		}
		if !rec.Status.Valid() {
			rec.Status = reportModels.StatusDraft
		}
		if sec, ok := s.Section(id); ok {
			rec.Content = st.defaultContent(sec)
			if sec.Kind.Authored() {
				if c, err := loadContent(sec, stored.Content); err == nil {
					rec.Content = st.withFormDefaults(sec, c)
				}
			}
		}
		st.records[id] = rec
	}
	return st
}

// Schema returns the schema the store was built against.
func (st *Store) Schema() *schema.Schema { return st.schema }

// Get returns the stored record for id or a schema default. It never fails.
func (st *Store) Get(id string) reportModels.SectionRecord {
	if rec, ok := st.records[id]; ok {
		rec.Content = rec.Content.Clone()
		return rec
	}
	rec := reportModels.SectionRecord{
		SectionID: id,
		Status:    reportModels.StatusDraft,
	}
	if sec, ok := st.schema.Section(id); ok && !sec.IsContainer() {
		rec.Content = st.defaultContent(sec)
	}
	return rec
}

// Has reports whether id has a stored record.
func (st *Store) Has(id string) bool {
	_, ok := st.records[id]
	return ok
}

// StoredIDs returns the ids that have records, sorted.
func (st *Store) StoredIDs() []string {
	ids := make([]string, 0, len(st.records))
	for id := range st.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PutContent validates and stores a student write. The existing comment is
// kept. Status must be draft or pending, and approved sections are locked.
func (st *Store) PutContent(id string, raw json.RawMessage, status reportModels.Status) (reportModels.SectionRecord, error) {
	sec, ok := st.schema.Section(id)
	if !ok {
		return reportModels.SectionRecord{}, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	if !sec.Kind.Authored() {
		return reportModels.SectionRecord{}, &domain.ShapeMismatchError{
			SectionID: id,
			Kind:      string(sec.Kind),
			Reason:    errNotAuthored.Error(),
		}
	}

	content, err := ParseContent(sec, raw)
	if err != nil {
		return reportModels.SectionRecord{}, err
	}

	current, stored := st.records[id]
	if err := StudentTransition(id, current.Status, stored, status); err != nil {
		return reportModels.SectionRecord{}, err
	}

	rec := reportModels.SectionRecord{
		SectionID: id,
		Content:   content,
		Status:    status,
		Comment:   current.Comment,
		Stored:    true,
	}
	st.records[id] = rec
	return rec, nil
}

// PutReview sets a reviewer decision. Content is untouched.
func (st *Store) PutReview(id string, status reportModels.Status, comment string) (reportModels.SectionRecord, error) {
	current, stored := st.records[id]
	if err := ReviewerTransition(id, current.Status, stored, status); err != nil {
		return reportModels.SectionRecord{}, err
	}
	current.Status = status
	current.Comment = comment
	st.records[id] = current
	return current, nil
}

// ApproveAll approves every stored record and returns the affected ids in
// sorted order. Comments are kept. No records is not an error.
func (st *Store) ApproveAll() []string {
	ids := st.StoredIDs()
	for _, id := range ids {
		rec := st.records[id]
		rec.Status = reportModels.StatusApproved
		st.records[id] = rec
	}
	return ids
}

// FormValues returns the resolved values of a structuredForm section.
func (st *Store) FormValues(id string) map[string]string {
	rec := st.Get(id)
	if rec.Content.Form == nil {
		return map[string]string{}
	}
	return rec.Content.Form
}

func (st *Store) defaultContent(sec *schema.Section) reportModels.Content {
	c := reportModels.Content{Kind: sec.Kind}
	switch sec.Kind {
	case reportModels.KindText:
		c.Pages = []string{sec.DefaultText}
	case reportModels.KindTable:
		c.Rows = append([]reportModels.ScheduleRow(nil), sec.DefaultRows...)
	case reportModels.KindForm:
		c = st.withFormDefaults(sec, c)
	}
	return c
}

// withFormDefaults fills keys missing from a form. Keys present in the
// stored form win, including empty strings.
func (st *Store) withFormDefaults(sec *schema.Section, c reportModels.Content) reportModels.Content {
	if sec.Kind != reportModels.KindForm {
		return c
	}
	form := make(map[string]string, len(sec.Fields))
	for _, f := range sec.Fields {
		v := f.Default
		if f.Profile != "" && st.profile[f.Profile] != "" {
			v = st.profile[f.Profile]
		}
		form[f.Key] = v
	}
	for k, v := range c.Form {
		form[k] = v
	}
	c.Form = form
	return c
}
