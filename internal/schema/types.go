package schema

import "reportdesk/internal/domain/models/report"

// FormField is one key of a structuredForm section.
type FormField struct {
	Key       string `yaml:"key" json:"key"`
	Label     string `yaml:"label" json:"label"`
	Default   string `yaml:"default" json:"default,omitempty"`
	MaxLength int    `yaml:"max_length" json:"max_length,omitempty"`
	// Profile names a user profile attribute ("name", "roll_number") that
	// overrides Default for the signed-in student.
	Profile string `yaml:"profile" json:"profile,omitempty"`
}

// Section is one node of the report tree.
type Section struct {
	ID    string             `yaml:"id" json:"id"`
	Title string             `yaml:"title" json:"title"`
	Kind  report.ContentKind `yaml:"kind" json:"kind"`

	// Subheading marks sections whose first page draws a title above the body.
	Subheading bool `yaml:"subheading" json:"subheading"`

	// Progress includes the section in progress aggregation.
	Progress bool `yaml:"progress" json:"progress"`

	// Source is the structuredForm section a generated page reads from.
	Source string `yaml:"source" json:"source,omitempty"`

	// Template is the body of a generated page. {{key}} placeholders are
	// filled from the source form.
	Template string `yaml:"template" json:"-"`

	Fields      []FormField          `yaml:"fields" json:"fields,omitempty"`
	DefaultText string               `yaml:"default_text" json:"default_text,omitempty"`
	DefaultRows []report.ScheduleRow `yaml:"default_rows" json:"default_rows,omitempty"`
	Placeholder string               `yaml:"placeholder" json:"placeholder,omitempty"`

	Children []*Section `yaml:"children" json:"children,omitempty"`

	parent *Section
}

// IsContainer reports whether the section only groups children.
func (s *Section) IsContainer() bool { return s.Kind == report.KindContainer }

// Parent returns the enclosing container, or nil for top-level sections.
func (s *Section) Parent() *Section { return s.parent }

// Field looks up a form field by key.
func (s *Section) Field(key string) (FormField, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FormField{}, false
}

// Layout holds the page capacity constants. They are tuned for A4 with the
// body font used by the renderer.
type Layout struct {
	CharsPerLine        int `yaml:"chars_per_line" json:"chars_per_line"`
	MaxLines            int `yaml:"max_lines" json:"max_lines"`
	MaxLinesWithHeading int `yaml:"max_lines_with_heading" json:"max_lines_with_heading"`
	RowsPerTablePage    int `yaml:"rows_per_table_page" json:"rows_per_table_page"`
	TOCPages            int `yaml:"toc_pages" json:"toc_pages"`
	TOCSplit            int `yaml:"toc_split" json:"toc_split"`

	// NumberFrom is the first section whose pages carry printed numbers.
	// Empty means the section right after the contents pages.
	NumberFrom string `yaml:"number_from" json:"number_from,omitempty"`
}

// merge overlays the non-zero fields of o.
func (l Layout) merge(o Layout) Layout {
	if o.CharsPerLine > 0 {
		l.CharsPerLine = o.CharsPerLine
	}
	if o.MaxLines > 0 {
		l.MaxLines = o.MaxLines
	}
	if o.MaxLinesWithHeading > 0 {
		l.MaxLinesWithHeading = o.MaxLinesWithHeading
	}
	if o.RowsPerTablePage > 0 {
		l.RowsPerTablePage = o.RowsPerTablePage
	}
	if o.TOCPages > 0 {
		l.TOCPages = o.TOCPages
	}
	if o.TOCSplit > 0 {
		l.TOCSplit = o.TOCSplit
	}
	if o.NumberFrom != "" {
		l.NumberFrom = o.NumberFrom
	}
	return l
}

// DefaultLayout matches the shipped internship report.
var DefaultLayout = Layout{
	CharsPerLine:        85,
	MaxLines:            36,
	MaxLinesWithHeading: 30,
	RowsPerTablePage:    12,
	TOCPages:            2,
	TOCSplit:            10,
}

// Document is the top-level YAML shape.
type Document struct {
	Name     string     `yaml:"name" json:"name"`
	Title    string     `yaml:"title" json:"title"`
	Layout   Layout     `yaml:"layout" json:"layout"`
	Sections []*Section `yaml:"sections" json:"sections"`
}
