package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce   sync.Once
	fontsErr    error
	regularFont *truetype.Font
	boldFont    *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		var err error
		if regularFont, err = truetype.Parse(goregular.TTF); err != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		if boldFont, err = truetype.Parse(gobold.TTF); err != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", err)
		}
	})
	return fontsErr
}

// faces are per render call; truetype faces keep a glyph cache that is not
// safe for concurrent use.
type faces struct {
	title   font.Face
	heading font.Face
	body    font.Face
	bold    font.Face
	small   font.Face
}

func newFaces() (*faces, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return &faces{
		title:   newFace(boldFont, 24),
		heading: newFace(boldFont, 17),
		body:    newFace(regularFont, 13),
		bold:    newFace(boldFont, 13),
		small:   newFace(regularFont, 11),
	}, nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
