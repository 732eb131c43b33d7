package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jung-kurt/gofpdf"
)

const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0

	defaultFetchWorkers = 4
)

// Exporter writes a whole document as one PDF, one raster per A4 sheet.
type Exporter struct {
	renderer *Renderer
	workers  int
	logger   *slog.Logger
}

func NewExporter(renderer *Renderer, logger *slog.Logger) *Exporter {
	return &Exporter{renderer: renderer, workers: defaultFetchWorkers, logger: logger}
}

// Export renders every page in order. A rendered unit taller than a sheet
// continues on the following sheets.
func (e *Exporter) Export(ctx context.Context, w io.Writer, doc *Document) error {
	loader, err := prefetch(ctx, doc, e.renderer.loader, e.workers)
	if err != nil {
		return fmt.Errorf("prefetch images: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Store.Schema().Title(), true)

	sheets := 0
	v := NewViewer(doc.Pages)
	for ok := v.Len() > 0; ok; ok = v.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := e.renderer.render(ctx, doc, v.Index(), loader)
		if err != nil {
			return err
		}

		for _, part := range SliceTall(FitWidth(img, PageWidth), PageHeight) {
			png, err := encodePNG(part)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("sheet-%d", sheets)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			b := part.Bounds()

			pdf.AddPage()
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
			pdf.ImageOptions(name, 0, 0, a4WidthMM, a4WidthMM*float64(b.Dy())/float64(b.Dx()), false, opts, 0, "")
			sheets++
		}
		if pdf.Err() {
			return fmt.Errorf("build PDF at page %d: %w", v.Index(), pdf.Error())
		}
	}

	e.logger.Debug("exported report", "pages", v.Len(), "sheets", sheets)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}
