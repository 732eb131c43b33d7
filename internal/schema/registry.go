package schema

import (
	"embed"
	"fmt"
	"strings"

	"reportdesk/internal/domain/models/report"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// DefaultName is the report shipped with the service.
const DefaultName = "internship"

// Schema is the validated, read-only report tree.
type Schema struct {
	doc      Document
	layout   Layout
	index    map[string]*Section
	leaves   []*Section
	progress []*Section
}

// Option adjusts a schema at load time.
type Option func(*Schema)

// WithLayout overrides layout constants. Zero fields are ignored.
func WithLayout(l Layout) Option {
	return func(s *Schema) { s.layout = s.layout.merge(l) }
}

// Load reads an embedded schema by name.
func Load(name string, opts ...Option) (*Schema, error) {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	s, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML schema document.
func Parse(data []byte, opts ...Option) (*Schema, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	return New(doc, opts...)
}

// New validates doc and builds the lookup tables.
func New(doc Document, opts ...Option) (*Schema, error) {
	s := &Schema{
		doc:    doc,
		layout: DefaultLayout.merge(doc.Layout),
		index:  make(map[string]*Section),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("schema %q has no sections", doc.Name)
	}
	for _, sec := range doc.Sections {
		if err := s.register(sec, nil); err != nil {
			return nil, err
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) register(sec *Section, parent *Section) error {
	if sec == nil || strings.TrimSpace(sec.ID) == "" {
		return fmt.Errorf("section without id")
	}
	if _, dup := s.index[sec.ID]; dup {
		return fmt.Errorf("duplicate section id %q", sec.ID)
	}
	if !sec.Kind.Valid() {
		return fmt.Errorf("section %q: unknown kind %q", sec.ID, sec.Kind)
	}
	sec.parent = parent
	s.index[sec.ID] = sec

	if sec.IsContainer() {
		if len(sec.Children) == 0 {
			return fmt.Errorf("container %q has no children", sec.ID)
		}
		for _, child := range sec.Children {
			if err := s.register(child, sec); err != nil {
				return err
			}
		}
		return nil
	}

	if len(sec.Children) > 0 {
		return fmt.Errorf("section %q of kind %s cannot have children", sec.ID, sec.Kind)
	}
	s.leaves = append(s.leaves, sec)
	if sec.Progress {
		if !sec.Kind.Authored() {
			return fmt.Errorf("section %q: %s sections cannot count towards progress", sec.ID, sec.Kind)
		}
		s.progress = append(s.progress, sec)
	}
	return nil
}

func (s *Schema) validate() error {
	l := s.layout
	if l.CharsPerLine <= 0 || l.MaxLines <= 0 || l.MaxLinesWithHeading <= 0 || l.RowsPerTablePage <= 0 {
		return fmt.Errorf("layout constants must be positive")
	}
	if l.MaxLinesWithHeading > l.MaxLines {
		return fmt.Errorf("max_lines_with_heading (%d) exceeds max_lines (%d)", l.MaxLinesWithHeading, l.MaxLines)
	}

	tocCount := 0
	for _, sec := range s.leaves {
		switch sec.Kind {
		case report.KindTOC:
			tocCount++
			if l.TOCPages <= 0 || l.TOCSplit <= 0 {
				return fmt.Errorf("toc_pages and toc_split must be positive")
			}
		case report.KindGenerated:
			src, ok := s.index[sec.Source]
			if !ok || src.Kind != report.KindForm {
				return fmt.Errorf("generated section %q must name a structuredForm source, got %q", sec.ID, sec.Source)
			}
		case report.KindForm:
			if len(sec.Fields) == 0 {
				return fmt.Errorf("form %q declares no fields", sec.ID)
			}
		}
	}
	if tocCount > 1 {
		return fmt.Errorf("schema declares %d contents sections, at most one is allowed", tocCount)
	}
	if l.NumberFrom != "" {
		if _, ok := s.index[l.NumberFrom]; !ok {
			return fmt.Errorf("number_from names unknown section %q", l.NumberFrom)
		}
	}
	return nil
}

// Name returns the schema identifier.
func (s *Schema) Name() string { return s.doc.Name }

// Title returns the report title.
func (s *Schema) Title() string { return s.doc.Title }

// Layout returns the effective capacity constants.
func (s *Schema) Layout() Layout { return s.layout }

// TopLevel returns the top-level sections in document order.
func (s *Schema) TopLevel() []*Section { return s.doc.Sections }

// Section looks up a section by id.
func (s *Schema) Section(id string) (*Section, bool) {
	sec, ok := s.index[id]
	return sec, ok
}

// Children returns the ordered children of id (empty for leaves).
func (s *Schema) Children(id string) []*Section {
	if sec, ok := s.index[id]; ok {
		return sec.Children
	}
	return nil
}

// IsContainer reports whether id is a grouping node.
func (s *Schema) IsContainer(id string) bool {
	sec, ok := s.index[id]
	return ok && sec.IsContainer()
}

// ContentKind returns the declared kind of id, or "" when unknown.
func (s *Schema) ContentKind(id string) report.ContentKind {
	if sec, ok := s.index[id]; ok {
		return sec.Kind
	}
	return ""
}

// OrderedLeaves returns all leaves depth-first, containers skipped.
func (s *Schema) OrderedLeaves() []*Section { return s.leaves }

// ProgressSections returns the leaves counted by progress aggregation.
func (s *Schema) ProgressSections() []*Section { return s.progress }

// ParentTitle returns the title of id's container, or "".
func (s *Schema) ParentTitle(id string) string {
	if sec, ok := s.index[id]; ok && sec.parent != nil {
		return sec.parent.Title
	}
	return ""
}
