package report

import (
	"fmt"
	"reflect"
	"testing"

	reportModels "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

func TestPaginateUntouchedProject(t *testing.T) {
	s := testSchema(t)
	pages := Paginate(NewStore(s, nil))

	for _, leaf := range s.OrderedLeaves() {
		if n := countPages(pages, leaf.ID); n < 1 {
			t.Errorf("section %s has %d pages, want at least 1", leaf.ID, n)
		}
	}
	if countPages(pages, "introduction") != 0 {
		t.Error("container produced its own page")
	}
	if got := countPages(pages, "toc"); got != 2 {
		t.Errorf("contents pages = %d, want 2", got)
	}
	if len(pages) < len(s.OrderedLeaves()) {
		t.Errorf("len(pages) = %d, want >= %d leaves", len(pages), len(s.OrderedLeaves()))
	}
}

func TestPaginatePerKind(t *testing.T) {
	s := testSchema(t)
	p := reportModels.EmptyProject("stu-1", "rev-1")
	p.Sections["abstract"] = stored(t, []string{"one", "two", "three"}, reportModels.StatusDraft)
	p.Sections["orgInfo"] = stored(t, []string{}, reportModels.StatusDraft)
	p.Sections["screenshots"] = stored(t, []string{"https://x/1.png", "https://x/2.png"}, reportModels.StatusPending)
	p.Sections["titlePage"] = stored(t, map[string]string{"studentName": "A"}, reportModels.StatusDraft)

	pages := Paginate(NewStore(s, p))

	tests := []struct {
		id   string
		want int
	}{
		{"titlePage", 1},
		{"certificate", 1},
		{"toc", 2},
		{"abstract", 3},
		{"orgInfo", 1},
		{"weeklyOverview", 1},
		{"intro_main", 1},
		{"intro_modules", 1},
		{"screenshots", 2},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := countPages(pages, tt.id); got != tt.want {
				t.Errorf("pages for %s = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

// Scenario A: 13 rows at 12 rows per page.
func TestPaginateTableChunks(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{0, 1},
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{25, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d rows", tt.rows), func(t *testing.T) {
			rows := make([]reportModels.ScheduleRow, tt.rows)
			for i := range rows {
				rows[i] = reportModels.ScheduleRow{Week: fmt.Sprintf("Week %d", i/5+1)}
			}
			p := reportModels.EmptyProject("stu-1", "rev-1")
			p.Sections["weeklyOverview"] = stored(t, rows, reportModels.StatusDraft)

			pages := Paginate(NewStore(testSchema(t), p))
			if got := countPages(pages, "weeklyOverview"); got != tt.want {
				t.Errorf("table pages = %d, want %d", got, tt.want)
			}
		})
	}
}

// Scenario B: contents pages stay fixed however many sections exist.
func TestPaginateContentsFixed(t *testing.T) {
	doc := schema.Document{
		Name:     "toc",
		Sections: []*schema.Section{{ID: "toc", Title: "INDEX", Kind: reportModels.KindTOC}},
	}
	for i := 1; i <= 9; i++ {
		doc.Sections = append(doc.Sections, &schema.Section{
			ID: fmt.Sprintf("s%d", i), Title: fmt.Sprintf("%d. Section", i), Kind: reportModels.KindText,
		})
	}
	s, err := schema.New(doc)
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}

	p := reportModels.EmptyProject("stu-1", "rev-1")
	p.Sections["s3"] = stored(t, []string{"a", "b", "c", "d", "e"}, reportModels.StatusDraft)
	pages := Paginate(NewStore(s, p))

	if got := countPages(pages, "toc"); got != 2 {
		t.Errorf("contents pages = %d, want 2", got)
	}
	if len(pages) != 2+8+5 {
		t.Errorf("len(pages) = %d, want 15", len(pages))
	}
}

func TestPaginateDeterministic(t *testing.T) {
	s := testSchema(t)
	p := reportModels.EmptyProject("stu-1", "rev-1")
	p.Sections["abstract"] = stored(t, []string{"one", "two"}, reportModels.StatusDraft)
	p.Sections["intro_modules"] = stored(t, []string{"a", "b", "c"}, reportModels.StatusPending)
	p.Sections["screenshots"] = stored(t, []string{"https://x/1.png"}, reportModels.StatusDraft)

	first := Paginate(NewStore(s, p))
	for i := 0; i < 20; i++ {
		if again := Paginate(NewStore(s, p)); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different page list", i)
		}
	}
}

func TestPaginateParentTitleAndHeading(t *testing.T) {
	s := testSchema(t)
	p := reportModels.EmptyProject("stu-1", "rev-1")
	p.Sections["intro_main"] = stored(t, []string{"a", "b"}, reportModels.StatusDraft)
	pages := Paginate(NewStore(s, p))

	first, ok := PageAt(pages, "intro_main", 0)
	if !ok {
		t.Fatal("intro_main page 0 missing")
	}
	if first.ParentTitle != "1. Introduction" {
		t.Errorf("ParentTitle = %q, want %q", first.ParentTitle, "1. Introduction")
	}
	if !first.Heading {
		t.Error("first page Heading = false, want true")
	}
	second, _ := PageAt(pages, "intro_main", 1)
	if second.Heading {
		t.Error("second page Heading = true, want false")
	}
	abstract, _ := PageAt(pages, "abstract", 0)
	if abstract.Heading {
		t.Error("abstract Heading = true, want false")
	}
}

func TestPaginateNumbering(t *testing.T) {
	s := testSchema(t)
	pages := Paginate(NewStore(s, nil))

	// titlePage, certificate, toc x2 are front matter
	for i := 0; i < 4; i++ {
		if pages[i].Number != 0 {
			t.Errorf("pages[%d] (%s) Number = %d, want unnumbered", i, pages[i].SectionID, pages[i].Number)
		}
	}
	for i := 4; i < len(pages); i++ {
		if pages[i].Number != i-3 {
			t.Errorf("pages[%d] (%s) Number = %d, want %d", i, pages[i].SectionID, pages[i].Number, i-3)
		}
	}
}

func TestPaginateNumberFrom(t *testing.T) {
	s, err := schema.Load(schema.DefaultName)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	pages := Paginate(NewStore(s, nil))

	ack, ok := PageAt(pages, "acknowledgement", 0)
	if !ok || ack.Number != 1 {
		t.Errorf("acknowledgement Number = %d, want 1", ack.Number)
	}
	title, _ := PageAt(pages, "titlePage", 0)
	if title.Number != 0 {
		t.Errorf("titlePage Number = %d, want 0", title.Number)
	}
}
