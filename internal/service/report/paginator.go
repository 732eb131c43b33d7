package report

import (
	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

// Paginate turns the schema and a store snapshot into the ordered page list.
// Containers contribute no page of their own. Every leaf yields at least one
// page. The result depends only on its inputs.
func Paginate(st *Store) []models.Page {
	s := st.schema
	var pages []models.Page
	for _, sec := range s.TopLevel() {
		pages = appendSection(pages, st, sec, "")
	}
	numberPages(s, pages)
	return pages
}

func appendSection(pages []models.Page, st *Store, sec *schema.Section, parentTitle string) []models.Page {
	if sec.IsContainer() {
		for _, child := range sec.Children {
			pages = appendSection(pages, st, child, sec.Title)
		}
		return pages
	}
	n := PageCount(st, sec)
	for i := 0; i < n; i++ {
		pages = append(pages, models.Page{
			SectionID:   sec.ID,
			Index:       i,
			Title:       sec.Title,
			ParentTitle: parentTitle,
			Kind:        sec.Kind,
			Heading:     i == 0 && sec.Subheading,
		})
	}
	return pages
}

// PageCount is the number of pages a leaf occupies.
func PageCount(st *Store, sec *schema.Section) int {
	layout := st.schema.Layout()
	switch sec.Kind {
	case models.KindText:
		return atLeastOne(len(st.Get(sec.ID).Content.Pages))
	case models.KindImage:
		return atLeastOne(len(st.Get(sec.ID).Content.Images))
	case models.KindTable:
		rows := len(st.Get(sec.ID).Content.Rows)
		return atLeastOne((rows + layout.RowsPerTablePage - 1) / layout.RowsPerTablePage)
	case models.KindTOC:
		return layout.TOCPages
	default:
		return 1
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// numberPages assigns printed numbers starting at 1 from the first page of
// the layout's NumberFrom section, or from the page after the contents
// pages when NumberFrom is unset. Earlier pages stay unnumbered.
func numberPages(s *schema.Schema, pages []models.Page) {
	start := firstNumberedIndex(s, pages)
	if start < 0 {
		return
	}
	for i := start; i < len(pages); i++ {
		pages[i].Number = i - start + 1
	}
}

func firstNumberedIndex(s *schema.Schema, pages []models.Page) int {
	if from := s.Layout().NumberFrom; from != "" {
		target := from
		if s.IsContainer(from) {
			target = firstLeafID(s.Children(from))
		}
		for i, p := range pages {
			if p.SectionID == target {
				return i
			}
		}
		return -1
	}
	last := -1
	for i, p := range pages {
		if p.Kind == models.KindTOC {
			last = i
		}
	}
	return last + 1
}

func firstLeafID(children []*schema.Section) string {
	for _, c := range children {
		if c.IsContainer() {
			if id := firstLeafID(c.Children); id != "" {
				return id
			}
			continue
		}
		return c.ID
	}
	return ""
}

// PageAt returns the index-th page of sectionID within pages.
func PageAt(pages []models.Page, sectionID string, index int) (models.Page, bool) {
	for _, p := range pages {
		if p.SectionID == sectionID && p.Index == index {
			return p, true
		}
	}
	return models.Page{}, false
}
