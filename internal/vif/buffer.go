package vif

import "unsafe"

// bufAlign is the row alignment of the scratch block, in bytes. Every plane
// shares the element stride derived from it, so a row of 32-bit elements in
// one plane lines up with a row of 16-bit elements in another.
const bufAlign = 32

// pool owns the single scratch allocation for one extractor instance and
// hands out typed views of it. The block is sliced once at construction:
// seven frame-sized plane regions followed by seven stride-sized line
// buffers. Views alias the block and must not outlive the pool.
//
// Plane roles follow the scale loop: refScale/disScale receive the
// decimated inputs for the next scale, mu1Small/mu2Small hold the
// pre-decimation blur, and the five 32-bit planes carry the filter moments
// consumed by the statistic pass.
type pool struct {
	block       []uint32
	strideElems int // elements per plane row, shared by all views

	refScale []uint16
	disScale []uint16
	mu1Small []uint16
	mu2Small []uint16

	mu1    []uint32
	mu2    []uint32
	refSq  []uint32
	disSq  []uint32
	refDis []uint32

	tmpRefConvol []uint32
	tmpDisConvol []uint32
	tmpMu1       []uint32
	tmpMu2       []uint32
	tmpRef       []uint32
	tmpDis       []uint32
	tmpRefDis    []uint32
}

func alignCeil(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// newPool allocates the scratch block for a w×h frame. The stride is the
// 32-bit row size rounded up to bufAlign, so it is always even and the
// half-frame 16-bit regions hold a full plane each.
func newPool(w, h int) *pool {
	stride := alignCeil(w*4, bufAlign) / 4
	frame := stride * h

	p := &pool{
		block:       make([]uint32, 7*frame+7*stride),
		strideElems: stride,
	}

	off := 0
	view16 := func(n32 int) []uint16 {
		v := unsafe.Slice((*uint16)(unsafe.Pointer(&p.block[off])), 2*n32)
		off += n32
		return v
	}
	view32 := func(n int) []uint32 {
		v := p.block[off : off+n : off+n]
		off += n
		return v
	}

	p.refScale = view16(frame / 2)
	p.disScale = view16(frame / 2)
	p.mu1Small = view16(frame / 2)
	p.mu2Small = view16(frame / 2)
	p.mu1 = view32(frame)
	p.mu2 = view32(frame)
	p.refSq = view32(frame)
	p.disSq = view32(frame)
	p.refDis = view32(frame)
	p.tmpRefConvol = view32(stride)
	p.tmpDisConvol = view32(stride)
	p.tmpMu1 = view32(stride)
	p.tmpMu2 = view32(stride)
	p.tmpRef = view32(stride)
	p.tmpDis = view32(stride)
	p.tmpRefDis = view32(stride)

	return p
}

// release drops the backing block. Views taken from the pool are invalid
// afterwards.
func (p *pool) release() {
	p.block = nil
}
