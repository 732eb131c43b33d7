package report

import (
	"encoding/json"
	"fmt"
	"testing"

	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

// testSchema is a small report with one section of every kind.
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	doc := schema.Document{
		Name: "test",
		Layout: schema.Layout{
			CharsPerLine:        85,
			MaxLines:            36,
			MaxLinesWithHeading: 30,
			RowsPerTablePage:    12,
			TOCPages:            2,
			TOCSplit:            3,
		},
		Sections: []*schema.Section{
			{
				ID: "titlePage", Title: "Title Page", Kind: models.KindForm, Progress: true,
				Fields: []schema.FormField{
					{Key: "studentName", Profile: "name"},
					{Key: "rollNo", Profile: "roll_number"},
					{Key: "companyName", Default: "IBM"},
				},
			},
			{ID: "certificate", Title: "Certificate", Kind: models.KindGenerated, Source: "titlePage"},
			{ID: "toc", Title: "INDEX", Kind: models.KindTOC},
			{ID: "abstract", Title: "Abstract", Kind: models.KindText, Progress: true, DefaultText: "abstract goes here"},
			{ID: "orgInfo", Title: "Organization Information", Kind: models.KindText, Subheading: true, Progress: true},
			{
				ID: "weeklyOverview", Title: "Weekly Overview", Kind: models.KindTable, Progress: true,
				DefaultRows: []models.ScheduleRow{{Week: "1st Week", Topic: "Introduction to Internship"}},
			},
			{
				ID: "introduction", Title: "1. Introduction", Kind: models.KindContainer,
				Children: []*schema.Section{
					{ID: "intro_main", Title: "1.1 Introduction", Kind: models.KindText, Subheading: true, Progress: true},
					{ID: "intro_modules", Title: "1.2 Module Description", Kind: models.KindText, Subheading: true, Progress: true},
				},
			},
			{ID: "screenshots", Title: "6. Screenshots", Kind: models.KindImage, Progress: true},
		},
	}
	s, err := schema.New(doc)
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}
	return s
}

// flatSchema has n progress-tracked text sections named s1..sn.
func flatSchema(t *testing.T, n int) *schema.Schema {
	t.Helper()
	doc := schema.Document{Name: "flat"}
	for i := 1; i <= n; i++ {
		doc.Sections = append(doc.Sections, &schema.Section{
			ID: fmt.Sprintf("s%d", i), Title: fmt.Sprintf("Section %d", i), Kind: models.KindText, Progress: true,
		})
	}
	s, err := schema.New(doc)
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}
	return s
}

func rawJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return b
}

func stored(t *testing.T, content interface{}, status models.Status) models.StoredSection {
	t.Helper()
	return models.StoredSection{Content: rawJSON(t, content), Status: status}
}

func countPages(pages []models.Page, sectionID string) int {
	n := 0
	for _, p := range pages {
		if p.SectionID == sectionID {
			n++
		}
	}
	return n
}
