package vif

import (
	"math"
	"testing"
)

func fillPlane(p []uint32, w, h, stride int, v uint32) {
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			p[i*stride+j] = v
		}
	}
}

// Zero variance everywhere routes every pixel through the low-variance
// path: the numerator collects nothing, the denominator counts pixels, and
// both combine to the pixel count exactly.
func TestStatisticZeroVariance(t *testing.T) {
	const w, h = 16, 12
	p := newPool(w, h)
	var tab [65536]uint16
	buildLogTable(&tab)

	num, den := statistic(p, &tab, w, h)

	want := float64(w * h)
	if num != want || den != want {
		t.Errorf("statistic on zero planes = (%g, %g), want (%g, %g)", num, den, want, want)
	}
}

// Identical moment planes with genuine variance take the log path with a
// fully correlated cross term; num and den then agree up to table
// quantization and the ratio is 1 within a few thousandths.
func TestStatisticIdentityLogPath(t *testing.T) {
	const w, h = 16, 12
	p := newPool(w, h)
	var tab [65536]uint16
	buildLogTable(&tab)

	// mu = 0, all three second moments 2^20: sigma1 = sigma2 = sigma12.
	fillPlane(p.refSq, w, h, p.strideElems, 1<<20)
	fillPlane(p.disSq, w, h, p.strideElems, 1<<20)
	fillPlane(p.refDis, w, h, p.strideElems, 1<<20)

	num, den := statistic(p, &tab, w, h)

	if den <= 0 {
		t.Fatalf("den = %g, want positive", den)
	}
	if ratio := num / den; math.Abs(ratio-1) > 0.01 {
		t.Errorf("identity ratio = %g, want 1 within 0.01", ratio)
	}

	// Per pixel both sides reduce to log2(9): sigma + sigmaNSq over
	// sigmaNSq with sigma = 8·sigmaNSq.
	wantPerPixel := math.Log2(9)
	if got := den / float64(w*h); math.Abs(got-wantPerPixel) > 0.01 {
		t.Errorf("den per pixel = %g, want %g within 0.01", got, wantPerPixel)
	}
}

// A negative cross term keeps the pixel on the log path but contributes
// only to the denominator.
func TestStatisticNegativeSigma12(t *testing.T) {
	const w, h = 16, 12
	p := newPool(w, h)
	var tab [65536]uint16
	buildLogTable(&tab)

	// mu1 = mu2 = 2^30 gives mu1Mu2 = 2^28 while refDis stays 0, so
	// sigma12 = -2^28. refSq = 2^28 + 2^20 leaves sigma1 = 2^20.
	fillPlane(p.mu1, w, h, p.strideElems, 1<<30)
	fillPlane(p.mu2, w, h, p.strideElems, 1<<30)
	fillPlane(p.refSq, w, h, p.strideElems, 1<<28+1<<20)
	fillPlane(p.disSq, w, h, p.strideElems, 1<<28)

	num, den := statistic(p, &tab, w, h)

	if num != 0 {
		t.Errorf("num = %g, want 0 for fully anti-correlated pixels", num)
	}
	wantPerPixel := math.Log2(9)
	if got := den / float64(w*h); math.Abs(got-wantPerPixel) > 0.01 {
		t.Errorf("den per pixel = %g, want %g within 0.01", got, wantPerPixel)
	}
}

// Raising the distorted variance while the reference stays put must lower
// the ratio: less of the reference's information survives.
func TestStatisticMonotoneInDistortedVariance(t *testing.T) {
	const w, h = 16, 12
	var tab [65536]uint16
	buildLogTable(&tab)

	ratioFor := func(disVar uint32) float64 {
		p := newPool(w, h)
		fillPlane(p.refSq, w, h, p.strideElems, 1<<20)
		fillPlane(p.disSq, w, h, p.strideElems, disVar)
		// Cross term fixed below full correlation.
		fillPlane(p.refDis, w, h, p.strideElems, 1<<19)
		num, den := statistic(p, &tab, w, h)
		return num / den
	}

	r1 := ratioFor(1 << 20)
	r2 := ratioFor(1 << 22)
	r3 := ratioFor(1 << 24)
	if !(r1 > r2 && r2 > r3) {
		t.Errorf("ratio not decreasing in distorted variance: %g, %g, %g", r1, r2, r3)
	}
}
