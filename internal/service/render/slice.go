package render

import (
	"image"

	"golang.org/x/image/draw"
)

// FitWidth scales img to exactly width pixels wide, keeping aspect ratio.
func FitWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == width || b.Dx() == 0 {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// SliceTall cuts img into consecutive strips of at most height pixels, top
// to bottom. Every source row lands in exactly one strip.
func SliceTall(img image.Image, height int) []image.Image {
	b := img.Bounds()
	if height <= 0 || b.Dy() <= height {
		return []image.Image{img}
	}

	parts := make([]image.Image, 0, (b.Dy()+height-1)/height)
	for y := b.Min.Y; y < b.Max.Y; y += height {
		r := image.Rect(b.Min.X, y, b.Max.X, min(y+height, b.Max.Y))
		dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
		parts = append(parts, dst)
	}
	return parts
}
