package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/service/report"
)

func TestSliceTall(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 2500))
	for y := 0; y < 2500; y++ {
		img.Set(0, y, color.RGBA{R: uint8(y % 256), G: uint8(y / 256), A: 255})
	}

	parts := SliceTall(img, PageHeight)
	if len(parts) != 3 {
		t.Fatalf("len(parts) = %d, want 3", len(parts))
	}

	y := 0
	for i, p := range parts {
		b := p.Bounds()
		if b.Dx() != 10 {
			t.Errorf("part %d width = %d", i, b.Dx())
		}
		for py := 0; py < b.Dy(); py++ {
			if p.At(b.Min.X, b.Min.Y+py) != img.At(0, y) {
				t.Fatalf("part %d row %d does not match source row %d", i, py, y)
			}
			y++
		}
	}
	if y != 2500 {
		t.Errorf("slices cover %d rows, want 2500", y)
	}
}

func TestSliceTallShortImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, PageWidth, PageHeight))
	if parts := SliceTall(img, PageHeight); len(parts) != 1 || parts[0] != image.Image(img) {
		t.Errorf("SliceTall() split a page-sized image into %d parts", len(parts))
	}
}

func TestFitWidth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1588, 4492))
	got := FitWidth(img, PageWidth).Bounds()
	if got.Dx() != PageWidth || got.Dy() != 2246 {
		t.Errorf("FitWidth() bounds = %v, want %dx2246", got, PageWidth)
	}
}

func TestExport(t *testing.T) {
	st := report.NewStore(renderSchema(t), project(t, map[string]interface{}{
		"screenshots": []string{
			"https://cdn.example.com/a.png",
			"https://cdn.example.com/b.png",
			"https://cdn.example.com/a.png",
		},
	}))
	loader := &fakeLoader{}
	e := NewExporter(NewRenderer(loader, discardLogger()), discardLogger())

	var buf bytes.Buffer
	if err := e.Export(context.Background(), &buf, NewDocument(st)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("Export() did not write a PDF")
	}
	for url, n := range loader.calls {
		if n != 1 {
			t.Errorf("%s fetched %d times, want 1", url, n)
		}
	}
	if len(loader.calls) != 2 {
		t.Errorf("fetched %d distinct images, want 2", len(loader.calls))
	}
}

func TestExportFailsOnImageError(t *testing.T) {
	st := report.NewStore(renderSchema(t), project(t, map[string]interface{}{
		"screenshots": []string{"https://cdn.example.com/a.png"},
	}))
	e := NewExporter(NewRenderer(&fakeLoader{err: errors.New("gone")}, discardLogger()), discardLogger())

	var buf bytes.Buffer
	if err := e.Export(context.Background(), &buf, NewDocument(st)); err == nil {
		t.Error("Export() error = nil, want image error")
	}
	if buf.Len() != 0 {
		t.Error("Export() wrote a partial PDF")
	}
}

func TestScheduleWorkbook(t *testing.T) {
	rows := []models.ScheduleRow{
		{Week: "Week 1", Date: "2025-07-01", Day: "Tuesday", Topic: "Onboarding"},
		{Week: "Week 1", Date: "2025-07-02", Day: "Wednesday"},
	}
	var buf bytes.Buffer
	if err := WriteScheduleWorkbook(&buf, rows); err != nil {
		t.Fatalf("WriteScheduleWorkbook() error = %v", err)
	}

	got, err := ReadScheduleWorkbook(&buf)
	if err != nil {
		t.Fatalf("ReadScheduleWorkbook() error = %v", err)
	}
	if len(got) != 2 || got[0] != rows[0] || got[1] != rows[1] {
		t.Errorf("rows = %+v, want %+v", got, rows)
	}
}
