// Package vif computes the integer fixed-point Visual Information Fidelity
// features of a reference/distorted frame pair. Four scores are produced
// per frame, one per spatial scale; each is the ratio of preserved to
// available visual information at that scale, with values near 1 meaning
// near-identity.
//
// The pipeline is a strictly sequential four-scale loop: blur-and-decimate
// into the next scale (scales 1..3), run the five-moment separable filter,
// aggregate the moment planes into a (num, den) pair. Every intermediate
// stays integer with fixed widths and shifts; only the final floating-point
// combine is subject to summation-order ULPs.
package vif

import (
	"fmt"

	"github.com/cwbudde/vifscore/internal/feature"
	"github.com/cwbudde/vifscore/internal/picture"
)

// numScales is the fixed depth of the scale pyramid.
const numScales = 4

// FeatureNames are the collector keys for the four per-scale scores, in
// scale order.
var FeatureNames = [numScales]string{
	"VMAF_feature_vif_scale0_integer_score",
	"VMAF_feature_vif_scale1_integer_score",
	"VMAF_feature_vif_scale2_integer_score",
	"VMAF_feature_vif_scale3_integer_score",
}

// minDim is the smallest frame side the pyramid supports: the 3-tap kernel
// at scale 3 needs at least two samples on a side after three halvings.
const minDim = 16

// Config fixes an extractor to one frame geometry.
type Config struct {
	Width  int
	Height int
	Bpc    int // 8, 10 or 12
}

// Extractor computes the four VIF scores for frames of one geometry. It
// owns the scratch pool and the log table; both live until Close. One
// Extractor processes one frame at a time; to score frames concurrently,
// use independent instances.
type Extractor struct {
	cfg    Config
	buf    *pool
	logTab [65536]uint16
}

// NewExtractor validates the configuration and allocates the scratch pool.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.Bpc != 8 && cfg.Bpc != 10 && cfg.Bpc != 12 {
		return nil, fmt.Errorf("vif: unsupported bit depth %d", cfg.Bpc)
	}
	if cfg.Width < minDim || cfg.Height < minDim {
		return nil, fmt.Errorf("vif: frame %dx%d below minimum %dx%d",
			cfg.Width, cfg.Height, minDim, minDim)
	}

	e := &Extractor{
		cfg: cfg,
		buf: newPool(cfg.Width, cfg.Height),
	}
	buildLogTable(&e.logTab)
	return e, nil
}

// Close releases the scratch pool. The extractor must not be used after.
func (e *Extractor) Close() {
	if e.buf != nil {
		e.buf.release()
		e.buf = nil
	}
}

// Extract runs the four-scale pipeline on one frame pair and appends the
// per-scale scores to the collector under FeatureNames, keyed by index.
// It returns an error without scoring when the extractor is closed or the
// pictures differ from each other or from the configured geometry;
// otherwise the returned error is the first collector-append failure, as
// the pipeline itself cannot fail.
func (e *Extractor) Extract(ref, dis *picture.Picture, index uint, col feature.Collector) error {
	if e.buf == nil {
		return fmt.Errorf("vif: extractor is closed")
	}
	if !ref.Matches(dis) {
		return fmt.Errorf("vif: reference %dx%d/%d and distorted %dx%d/%d differ",
			ref.Width, ref.Height, ref.Bpc, dis.Width, dis.Height, dis.Bpc)
	}
	if ref.Width != e.cfg.Width || ref.Height != e.cfg.Height || ref.Bpc != e.cfg.Bpc {
		return fmt.Errorf("vif: frame %dx%d/%d does not match configured %dx%d/%d",
			ref.Width, ref.Height, ref.Bpc, e.cfg.Width, e.cfg.Height, e.cfg.Bpc)
	}

	p := e.buf
	bpc := e.cfg.Bpc
	w, h := e.cfg.Width, e.cfg.Height

	// Scale-0 inputs come straight from the pictures; afterwards the
	// decimated planes in the pool take over and the element stride
	// becomes the pool stride.
	use8 := bpc == 8
	ref8, dis8 := ref.Data8, dis.Data8
	ref16, dis16 := ref.Data16, dis.Data16
	refStride, disStride := ref.Stride, dis.Stride

	var scores [2 * numScales]float64

	for scale := 0; scale < numScales; scale++ {
		taps := filterTable[scale]

		if scale > 0 {
			// Blur with the current kernel but the previous scale's
			// shift schedule, then keep every second sample.
			q := reduceShifts(scale-1, bpc)
			if use8 {
				reduceBlur(taps, ref8, dis8, refStride, disStride, p, w, h, q)
				use8 = false
			} else {
				reduceBlur(taps, ref16, dis16, refStride, disStride, p, w, h, q)
			}

			decimate(p.mu1Small, p.refScale, w, h, p.strideElems)
			decimate(p.mu2Small, p.disScale, w, h, p.strideElems)

			w /= 2
			h /= 2
			ref16, dis16 = p.refScale, p.disScale
			refStride, disStride = p.strideElems, p.strideElems
		}

		q := momentShifts(scale, bpc)
		if use8 {
			filterMoments(taps, ref8, dis8, refStride, disStride, p, w, h, q)
		} else {
			filterMoments(taps, ref16, dis16, refStride, disStride, p, w, h, q)
		}

		num, den := statistic(p, &e.logTab, w, h)
		scores[2*scale] = num
		scores[2*scale+1] = den
	}

	var err error
	for scale := 0; scale < numScales; scale++ {
		ratio := scores[2*scale] / scores[2*scale+1]
		if aerr := col.Append(FeatureNames[scale], ratio, index); aerr != nil && err == nil {
			err = aerr
		}
	}
	return err
}
