package render

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/service/report"
)

// Document is a paginated report ready to render. It is built once per
// request from a store snapshot and never re-paginates.
type Document struct {
	Store    *report.Store
	Pages    []models.Page
	Contents []models.TOCEntry
}

// NewDocument paginates st and builds the contents entries.
func NewDocument(st *report.Store) *Document {
	pages := report.Paginate(st)
	return &Document{
		Store:    st,
		Pages:    pages,
		Contents: report.TableOfContents(st.Schema(), pages),
	}
}

// Page returns page i of the document.
func (d *Document) Page(i int) (models.Page, bool) {
	if i < 0 || i >= len(d.Pages) {
		return models.Page{}, false
	}
	return d.Pages[i], true
}

// CacheKey identifies the rendered bytes of page i. It changes whenever
// anything drawn on the page changes.
func (d *Document) CacheKey(i int) (string, error) {
	page, ok := d.Page(i)
	if !ok {
		return "", fmt.Errorf("page %d: %w", i, domain.ErrNotFound)
	}

	input := struct {
		Page     models.Page       `json:"page"`
		Content  models.Content    `json:"content"`
		Source   map[string]string `json:"source,omitempty"`
		Contents []models.TOCEntry `json:"contents,omitempty"`
	}{Page: page, Content: d.Store.Get(page.SectionID).Content}

	sec, _ := d.Store.Schema().Section(page.SectionID)
	switch page.Kind {
	case models.KindGenerated:
		if sec != nil {
			input.Source = d.Store.FormValues(sec.Source)
		}
	case models.KindTOC:
		input.Contents = report.ContentsPage(d.Contents, page.Index, d.Store.Schema().Layout())
	}

	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("hash page %d: %w", i, err)
	}
	sum := sha256.Sum256(data)
	return "page:" + d.Store.Schema().Name() + ":" + hex.EncodeToString(sum[:]), nil
}

// Viewer is the preview cursor over a fixed page list.
type Viewer struct {
	pages  []models.Page
	cursor int
}

// NewViewer starts at the first page.
func NewViewer(pages []models.Page) *Viewer {
	return &Viewer{pages: pages}
}

func (v *Viewer) Len() int   { return len(v.pages) }
func (v *Viewer) Index() int { return v.cursor }

// Current returns the page under the cursor; false for an empty document.
func (v *Viewer) Current() (models.Page, bool) {
	if v.cursor < 0 || v.cursor >= len(v.pages) {
		return models.Page{}, false
	}
	return v.pages[v.cursor], true
}

// Next advances and reports whether it moved.
func (v *Viewer) Next() bool {
	if v.cursor+1 >= len(v.pages) {
		return false
	}
	v.cursor++
	return true
}

// Prev steps back and reports whether it moved.
func (v *Viewer) Prev() bool {
	if v.cursor == 0 {
		return false
	}
	v.cursor--
	return true
}

// Seek moves to page i. Out of range leaves the cursor alone.
func (v *Viewer) Seek(i int) error {
	if i < 0 || i >= len(v.pages) {
		return fmt.Errorf("page %d of %d: %w", i, len(v.pages), domain.ErrNotFound)
	}
	v.cursor = i
	return nil
}
