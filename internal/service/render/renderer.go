package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/report"
	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/schema"
	"reportdesk/internal/service/report"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// A4 at 96 DPI, the preview geometry of the editor.
const (
	PageWidth  = 794
	PageHeight = 1123

	margin      = 72
	bodyLeading = 1.55
	footerY     = PageHeight - 40
)

var (
	ink       = color.Black
	paper     = color.White
	rule      = color.Gray{Y: 0x99}
	muted     = color.Gray{Y: 0x66}
	headerRow = color.Gray{Y: 0xE6}
)

// Renderer draws one page of a Document into an A4 raster.
type Renderer struct {
	loader reportSvc.ImageLoader
	logger *slog.Logger
}

// NewRenderer uses loader for image sections. A nil loader draws every
// image page as its placeholder.
func NewRenderer(loader reportSvc.ImageLoader, logger *slog.Logger) *Renderer {
	return &Renderer{loader: loader, logger: logger}
}

// Render draws page index of doc.
func (r *Renderer) Render(ctx context.Context, doc *Document, index int) (image.Image, error) {
	return r.render(ctx, doc, index, r.loader)
}

// RenderPNG is Render encoded as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, doc *Document, index int) ([]byte, error) {
	img, err := r.Render(ctx, doc, index)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func (r *Renderer) render(ctx context.Context, doc *Document, index int, loader reportSvc.ImageLoader) (image.Image, error) {
	page, ok := doc.Page(index)
	if !ok {
		return nil, fmt.Errorf("page %d: %w", index, domain.ErrNotFound)
	}
	sec, ok := doc.Store.Schema().Section(page.SectionID)
	if !ok {
		return nil, fmt.Errorf("section %s: %w", page.SectionID, domain.ErrNotFound)
	}
	f, err := newFaces()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(PageWidth, PageHeight)
	dc.SetColor(paper)
	dc.Clear()
	dc.SetColor(ink)

	rec := doc.Store.Get(page.SectionID)
	switch page.Kind {
	case models.KindForm:
		if sec.ID == firstSectionID(doc.Store.Schema()) {
			drawTitlePage(dc, f, sec, rec.Content.Form)
		} else {
			drawForm(dc, f, sec, rec.Content.Form)
		}
	case models.KindGenerated:
		drawGenerated(dc, f, page, FillTemplate(sec.Template, doc.Store.FormValues(sec.Source)))
	case models.KindImage:
		if err := r.drawImage(ctx, dc, f, page, sec, rec.Content.Images, loader); err != nil {
			return nil, err
		}
	case models.KindTable:
		drawTable(dc, f, page, rec.Content.Rows, doc.Store.Schema().Layout())
	case models.KindTOC:
		drawContents(dc, f, page, report.ContentsPage(doc.Contents, page.Index, doc.Store.Schema().Layout()))
	case models.KindText:
		text := ""
		if page.Index < len(rec.Content.Pages) {
			text = rec.Content.Pages[page.Index]
		}
		drawText(dc, f, page, text)
	}

	if page.Number > 0 {
		dc.SetFontFace(f.small)
		dc.SetColor(muted)
		dc.DrawStringAnchored(strconv.Itoa(page.Number), PageWidth/2, footerY, 0.5, 0.5)
	}
	return dc.Image(), nil
}

func firstSectionID(s *schema.Schema) string {
	if top := s.TopLevel(); len(top) > 0 {
		return top[0].ID
	}
	return ""
}

// FillTemplate replaces {{key}} with values[key]. Unknown keys are kept.
func FillTemplate(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func drawTitlePage(dc *gg.Context, f *faces, sec *schema.Section, form map[string]string) {
	y := 180.0
	for i, field := range sec.Fields {
		v := strings.TrimSpace(form[field.Key])
		if v == "" {
			continue
		}
		face := f.body
		switch {
		case i == 0:
			face = f.title
		case field.Profile != "":
			face = f.heading
		}
		dc.SetFontFace(face)
		dc.SetColor(ink)
		for _, line := range wrap(dc, v, PageWidth-2*margin) {
			dc.DrawStringAnchored(line, PageWidth/2, y, 0.5, 0.5)
			y += dc.FontHeight() * bodyLeading
		}
		y += 28
	}
	dc.SetColor(rule)
	dc.SetLineWidth(2)
	dc.DrawRectangle(margin/2, margin/2, PageWidth-margin, PageHeight-margin)
	dc.Stroke()
}

func drawForm(dc *gg.Context, f *faces, sec *schema.Section, form map[string]string) {
	y := drawHeading(dc, f, sec.Title, "", true)
	for _, field := range sec.Fields {
		dc.SetFontFace(f.bold)
		dc.SetColor(ink)
		dc.DrawString(field.Label, margin, y)
		dc.SetFontFace(f.body)
		lines := wrap(dc, form[field.Key], PageWidth-2*margin-220)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			dc.DrawString(line, margin+220, y)
			y += dc.FontHeight() * bodyLeading
		}
		y += 10
	}
}

func drawGenerated(dc *gg.Context, f *faces, page models.Page, body string) {
	y := drawHeading(dc, f, page.Title, "", true)
	drawParagraphs(dc, f, body, y+10)
}

func drawText(dc *gg.Context, f *faces, page models.Page, text string) {
	y := float64(margin)
	if page.Index == 0 {
		y = drawHeading(dc, f, page.Title, page.ParentTitle, !page.Heading)
	}
	drawParagraphs(dc, f, text, y)
}

// drawHeading returns the baseline where the body starts.
func drawHeading(dc *gg.Context, f *faces, title, parent string, centered bool) float64 {
	y := float64(margin) + 20
	if parent != "" {
		dc.SetFontFace(f.small)
		dc.SetColor(muted)
		dc.DrawString(parent, margin, y-28)
	}
	dc.SetColor(ink)
	dc.SetFontFace(f.heading)
	if centered {
		dc.DrawStringAnchored(title, PageWidth/2, y, 0.5, 0)
	} else {
		dc.DrawString(title, margin, y)
		dc.SetColor(rule)
		dc.SetLineWidth(1)
		dc.DrawLine(margin, y+8, PageWidth-margin, y+8)
		dc.Stroke()
		dc.SetColor(ink)
	}
	return y + 40
}

// drawParagraphs wraps text to the body width. Lines past the bottom margin
// are dropped; the capacity check rejects such pages on save.
func drawParagraphs(dc *gg.Context, f *faces, text string, y float64) {
	dc.SetFontFace(f.body)
	dc.SetColor(ink)
	lh := dc.FontHeight() * bodyLeading
	for _, para := range strings.Split(text, "\n") {
		lines := wrap(dc, para, PageWidth-2*margin)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			if y > footerY-lh {
				return
			}
			dc.DrawString(line, margin, y)
			y += lh
		}
	}
}

func (r *Renderer) drawImage(ctx context.Context, dc *gg.Context, f *faces, page models.Page, sec *schema.Section, urls []string, loader reportSvc.ImageLoader) error {
	y := float64(margin)
	if page.Index == 0 {
		y = drawHeading(dc, f, page.Title, page.ParentTitle, true)
	}
	box := image.Rect(margin, int(y), PageWidth-margin, footerY-30)

	url := ""
	if page.Index < len(urls) {
		url = urls[page.Index]
	}
	if url == "" || loader == nil {
		drawPlaceholder(dc, f, box, sec.Placeholder)
		return nil
	}

	img, err := loader.Load(ctx, url)
	if err != nil {
		return fmt.Errorf("load image for %s page %d: %w", page.SectionID, page.Index, err)
	}
	scaled := fitInto(img, box.Dx(), box.Dy())
	x := box.Min.X + (box.Dx()-scaled.Bounds().Dx())/2
	dc.DrawImage(scaled, x, box.Min.Y)
	return nil
}

func drawPlaceholder(dc *gg.Context, f *faces, box image.Rectangle, label string) {
	if label == "" {
		label = "NO IMAGE UPLOADED"
	}
	dc.SetColor(rule)
	dc.SetLineWidth(2)
	dc.SetDash(8, 6)
	dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
	dc.Stroke()
	dc.SetDash()
	dc.SetFontFace(f.bold)
	dc.SetColor(muted)
	dc.DrawStringAnchored(label, float64(box.Min.X+box.Dx()/2), float64(box.Min.Y+box.Dy()/2), 0.5, 0.5)
}

// fitInto scales img down to fit w x h keeping its aspect ratio. Smaller
// images are left alone.
func fitInto(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	scale := float64(w) / float64(b.Dx())
	if s := float64(h) / float64(b.Dy()); s < scale {
		scale = s
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(b.Dx())*scale)), max(1, int(float64(b.Dy())*scale))))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

var tableColumns = []struct {
	title string
	width float64
}{
	{"Week", 110},
	{"Date", 110},
	{"Day", 110},
	{"Topic", PageWidth - 2*margin - 330},
}

func drawTable(dc *gg.Context, f *faces, page models.Page, rows []models.ScheduleRow, layout schema.Layout) {
	title := strings.ToUpper(page.Title)
	if page.Index > 0 {
		title += " (Cont.)"
	}
	y := drawHeading(dc, f, title, "", true)

	rowHeight := (float64(footerY-60) - y) / float64(layout.RowsPerTablePage+1)
	header := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		header[i] = col.title
	}
	drawTableRow(dc, f.bold, y, rowHeight, header, headerRow)
	y += rowHeight

	start := page.Index * layout.RowsPerTablePage
	end := min(start+layout.RowsPerTablePage, len(rows))
	for i := start; i < end; i++ {
		row := rows[i]
		drawTableRow(dc, f.body, y, rowHeight, []string{row.Week, row.Date, row.Day, row.Topic}, nil)
		y += rowHeight
	}
}

func drawTableRow(dc *gg.Context, face font.Face, y, h float64, cells []string, fill color.Color) {
	dc.SetFontFace(face)
	x := float64(margin)
	for i, col := range tableColumns {
		if fill != nil {
			dc.SetColor(fill)
			dc.DrawRectangle(x, y, col.width, h)
			dc.Fill()
		}
		dc.SetColor(rule)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, col.width, h)
		dc.Stroke()

		dc.SetColor(ink)
		lines := wrap(dc, cells[i], col.width-12)
		ty := y + 8 + dc.FontHeight()
		for _, line := range lines {
			if ty > y+h-4 {
				break
			}
			dc.DrawString(line, x+6, ty)
			ty += dc.FontHeight() * 1.2
		}
		x += col.width
	}
}

func drawContents(dc *gg.Context, f *faces, page models.Page, entries []models.TOCEntry) {
	y := float64(margin) + 20
	if page.Index == 0 {
		y = drawHeading(dc, f, page.Title, "", true)
	}
	for _, e := range entries {
		face := f.bold
		indent := 0.0
		if e.Level > 0 {
			face = f.body
			indent = 28 * float64(e.Level)
		}
		dc.SetFontFace(face)
		dc.SetColor(ink)
		// the number column keeps 48px on the right
		lines := wrap(dc, e.Title, PageWidth-2*margin-indent-48)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for i, line := range lines {
			if i > 0 {
				y += dc.FontHeight() * 1.3
			}
			dc.DrawString(line, margin+indent, y)
		}
		dc.DrawStringAnchored(strconv.Itoa(e.Page), PageWidth-margin, y, 1, 0)

		tw, _ := dc.MeasureString(lines[len(lines)-1])
		dc.SetColor(rule)
		dc.SetDash(2, 4)
		dc.DrawLine(margin+indent+tw+8, y, PageWidth-margin-40, y)
		dc.Stroke()
		dc.SetDash()
		y += dc.FontHeight() * 2.4
	}
}

// wrap is WordWrap plus a hard break for runs with no space, such as URLs,
// that are wider than width on their own.
func wrap(dc *gg.Context, s string, width float64) []string {
	var out []string
	for _, line := range dc.WordWrap(s, width) {
		if w, _ := dc.MeasureString(line); w <= width {
			out = append(out, line)
			continue
		}
		out = append(out, breakRunes(dc, line, width)...)
	}
	return out
}

// breakRunes splits line into the longest prefixes that fit width. Each
// chunk holds at least one rune so a single wide glyph cannot loop.
func breakRunes(dc *gg.Context, line string, width float64) []string {
	var out []string
	runes := []rune(line)
	for len(runes) > 0 {
		n := 1
		for n < len(runes) {
			if w, _ := dc.MeasureString(string(runes[:n+1])); w > width {
				break
			}
			n++
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	dc := gg.NewContextForImage(img)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
