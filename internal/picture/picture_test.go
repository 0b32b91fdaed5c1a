package picture

import (
	"image"
	"image/color"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 10, 8); err == nil {
		t.Error("zero width accepted")
	}
	if _, err := New(10, 10, 9); err == nil {
		t.Error("bit depth 9 accepted")
	}

	p, err := New(10, 5, 8)
	if err != nil {
		t.Fatal(err)
	}
	if p.Data8 == nil || p.Data16 != nil {
		t.Error("8-bit picture should allocate Data8 only")
	}

	p16, err := New(10, 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if p16.Data16 == nil || p16.Data8 != nil {
		t.Error("10-bit picture should allocate Data16 only")
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{200, 200, 200, 255})
		}
	}

	p, err := FromImage(img, 8)
	if err != nil {
		t.Fatal(err)
	}
	// Equal channels: luma equals the channel value regardless of weights.
	for i, v := range p.Data8 {
		if v != 200 {
			t.Fatalf("Data8[%d] = %d, want 200", i, v)
		}
	}
}

func TestFromImageDepthScaling(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}

	p8, err := FromImage(img, 8)
	if err != nil {
		t.Fatal(err)
	}
	p10, err := FromImage(img, 10)
	if err != nil {
		t.Fatal(err)
	}

	// The 10-bit plane carries the same luma with two extra bits.
	for i := range p8.Data8 {
		if got, want := p10.Data16[i]>>2, uint16(p8.Data8[i]); got != want {
			t.Fatalf("10-bit luma %d >> 2 = %d, want %d", p10.Data16[i], got, want)
		}
	}
}

func TestMatches(t *testing.T) {
	a, _ := New(16, 16, 8)
	b, _ := New(16, 16, 8)
	c, _ := New(16, 16, 10)
	d, _ := New(16, 32, 8)

	if !a.Matches(b) {
		t.Error("equal geometry should match")
	}
	if a.Matches(c) {
		t.Error("different depth should not match")
	}
	if a.Matches(d) {
		t.Error("different height should not match")
	}
}
