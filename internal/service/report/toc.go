package report

import (
	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

// TableOfContents lists every top-level section that starts on a numbered
// page, in document order, with its first printed page number. Containers
// point at their first child's page and list their children one level down.
// The contents section never lists itself.
func TableOfContents(s *schema.Schema, pages []models.Page) []models.TOCEntry {
	first := make(map[string]int)
	for _, p := range pages {
		if _, seen := first[p.SectionID]; !seen {
			first[p.SectionID] = p.Number
		}
	}

	entries := []models.TOCEntry{}
	for _, sec := range s.TopLevel() {
		if sec.Kind == models.KindTOC {
			continue
		}
		if !sec.IsContainer() {
			if n := first[sec.ID]; n > 0 {
				entries = append(entries, models.TOCEntry{SectionID: sec.ID, Title: sec.Title, Page: n})
			}
			continue
		}

		n := first[firstLeafID(sec.Children)]
		if n == 0 {
			continue
		}
		entries = append(entries, models.TOCEntry{SectionID: sec.ID, Title: sec.Title, Page: n})
		for _, child := range sec.Children {
			id := child.ID
			if child.IsContainer() {
				id = firstLeafID(child.Children)
			}
			if cn := first[id]; cn > 0 {
				entries = append(entries, models.TOCEntry{SectionID: child.ID, Title: child.Title, Page: cn, Level: 1})
			}
		}
	}
	return entries
}

// ContentsPage returns the entries printed on the index-th contents page.
// Pages before the last hold TOCSplit entries each; the last page takes the
// remainder.
func ContentsPage(entries []models.TOCEntry, index int, layout schema.Layout) []models.TOCEntry {
	if index < 0 || index >= layout.TOCPages {
		return nil
	}
	start := index * layout.TOCSplit
	if start >= len(entries) {
		return []models.TOCEntry{}
	}
	end := start + layout.TOCSplit
	if index == layout.TOCPages-1 || end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
