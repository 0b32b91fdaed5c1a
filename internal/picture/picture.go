// Package picture holds the single-plane luminance frames the extractor
// consumes. Frames carry their own geometry and bit depth; 8-bit content
// lives in Data8, deeper content in Data16.
package picture

import (
	"fmt"
	"image"
)

// Picture is one luminance plane. Stride is in elements of the plane's
// storage type, not bytes, and is at least Width. The plane is row-major
// with origin top-left.
type Picture struct {
	Width  int
	Height int
	Bpc    int // bits per component: 8, 10 or 12
	Stride int

	Data8  []uint8  // set when Bpc == 8
	Data16 []uint16 // set when Bpc > 8
}

// New allocates a zeroed picture with a tight stride.
func New(w, h, bpc int) (*Picture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("picture: invalid dimensions %dx%d", w, h)
	}
	if bpc != 8 && bpc != 10 && bpc != 12 {
		return nil, fmt.Errorf("picture: unsupported bit depth %d", bpc)
	}

	p := &Picture{Width: w, Height: h, Bpc: bpc, Stride: w}
	if bpc == 8 {
		p.Data8 = make([]uint8, w*h)
	} else {
		p.Data16 = make([]uint16, w*h)
	}
	return p, nil
}

// FromImage converts a decoded image to a luminance plane at the requested
// bit depth using BT.601 weights. RGBA() yields 16-bit channels; the luma
// is computed there and shifted down to bpc.
func FromImage(img image.Image, bpc int) (*Picture, error) {
	bounds := img.Bounds()
	p, err := New(bounds.Dx(), bounds.Dy(), bpc)
	if err != nil {
		return nil, err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			luma := (299*r + 587*g + 114*b) / 1000

			i := (y-bounds.Min.Y)*p.Stride + (x - bounds.Min.X)
			if bpc == 8 {
				p.Data8[i] = uint8(luma >> 8)
			} else {
				p.Data16[i] = uint16(luma >> (16 - uint(bpc)))
			}
		}
	}

	return p, nil
}

// Matches reports whether two pictures share geometry and depth.
func (p *Picture) Matches(o *Picture) bool {
	return p.Width == o.Width && p.Height == o.Height && p.Bpc == o.Bpc
}
