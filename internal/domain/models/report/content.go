package report

import "encoding/json"

// ContentKind is the declared shape of a section's content.
type ContentKind string

const (
	KindContainer ContentKind = "container"
	KindText      ContentKind = "text"
	KindImage     ContentKind = "image"
	KindForm      ContentKind = "structuredForm"
	KindTable     ContentKind = "table"
	KindGenerated ContentKind = "generated"
	KindTOC       ContentKind = "tableOfContents"
)

// Valid reports whether k is a known kind.
func (k ContentKind) Valid() bool {
	switch k {
	case KindContainer, KindText, KindImage, KindForm, KindTable, KindGenerated, KindTOC:
		return true
	}
	return false
}

// Authored reports whether sections of this kind accept content from a student.
func (k ContentKind) Authored() bool {
	switch k {
	case KindText, KindImage, KindForm, KindTable:
		return true
	}
	return false
}

// ScheduleRow is one line of the weekly overview table.
type ScheduleRow struct {
	Week  string `json:"week" yaml:"week"`
	Date  string `json:"date" yaml:"date"`
	Day   string `json:"day" yaml:"day"`
	Topic string `json:"topic" yaml:"topic"`
}

// Content is a tagged variant. Only the member matching Kind is meaningful:
// Pages for text, Images for image, Form for structuredForm, Rows for table.
// Generated and table-of-contents sections carry no content.
type Content struct {
	Kind   ContentKind
	Pages  []string
	Images []string
	Form   map[string]string
	Rows   []ScheduleRow
}

// MarshalJSON writes the bare payload for the kind, which is also the shape
// accepted on writes and stored in the project record.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindText:
		return json.Marshal(nonNil(c.Pages))
	case KindImage:
		return json.Marshal(nonNil(c.Images))
	case KindForm:
		if c.Form == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(c.Form)
	case KindTable:
		if c.Rows == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Rows)
	default:
		return []byte("null"), nil
	}
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	out := Content{Kind: c.Kind}
	if c.Pages != nil {
		out.Pages = append([]string(nil), c.Pages...)
	}
	if c.Images != nil {
		out.Images = append([]string(nil), c.Images...)
	}
	if c.Rows != nil {
		out.Rows = append([]ScheduleRow(nil), c.Rows...)
	}
	if c.Form != nil {
		out.Form = make(map[string]string, len(c.Form))
		for k, v := range c.Form {
			out.Form[k] = v
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
