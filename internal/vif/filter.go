package vif

// sample is the input element type of a scale's working planes. Only the
// first scale of an 8-bit frame feeds uint8 data into the filter bank;
// deeper bit depths and every later scale run on 16-bit planes.
type sample interface {
	~uint8 | ~uint16
}

// qShift is the fixed-point schedule for one filter invocation. The rounds
// and shifts are data, not control flow: the same filter body serves every
// scale and bit depth.
type qShift struct {
	vp        uint   // mean shift after the vertical pass
	vpRound   uint32 // rounding term for vp
	vpSq      uint   // second-moment shift after the vertical pass
	vpSqRound uint64 // rounding term for vpSq
	hp        uint   // second-moment shift after the horizontal pass
	hpRound   uint64 // rounding term for hp
}

// momentShifts returns the schedule for the five-moment filter at the given
// scale. At scale 0 the vertical shifts undo the input bit depth; later
// scales always consume Q16 planes produced by the downsampler.
func momentShifts(scale, bpc int) qShift {
	if scale == 0 {
		sq := uint((bpc - 8) * 2)
		var sqRound uint64
		if bpc > 8 {
			sqRound = 1 << (sq - 1)
		}
		return qShift{
			vp:        uint(bpc),
			vpRound:   1 << (bpc - 1),
			vpSq:      sq,
			vpSqRound: sqRound,
			hp:        16,
			hpRound:   32768,
		}
	}
	return qShift{vp: 16, vpRound: 32768, vpSq: 16, vpSqRound: 32768, hp: 16, hpRound: 32768}
}

// reduceShifts returns the vertical-pass schedule for the reduction filter
// preceding decimation. Only the mean fields are used; the horizontal pass
// of the reducer is fixed at Q16.
func reduceShifts(scale, bpc int) qShift {
	if scale == 0 {
		return qShift{vp: uint(bpc), vpRound: 1 << (bpc - 1)}
	}
	return qShift{vp: 16, vpRound: 32768}
}

// mirror reflects an out-of-range index about the plane edge. At the low
// edge the boundary sample is not repeated (-1 maps to 1); at the high edge
// it is (n maps to n-1).
func mirror(k, n int) int {
	if k < 0 {
		return -k
	}
	if k >= n {
		return 2*n - k - 1
	}
	return k
}

// filterMoments runs the separable five-moment filter over one scale,
// writing the two mean planes and the three second-moment planes of the
// pool. Per output row it performs a vertical pass into the five line
// buffers followed by a horizontal pass over them.
//
// Accumulator widths are part of the contract. In the vertical pass the
// mean accumulators stay 32-bit (Σ fcoeff·s with fcoeff Q16 and s at most
// 16 bits never reaches 2^32) while the squared terms need 64 bits. After
// the vertical shift the means fit 16 bits and the squares 32, so the
// horizontal pass repeats the same split. The mean planes keep the full
// horizontal accumulator; the moment planes are shifted back to Q32.
func filterMoments[T sample](taps []uint16, ref, dis []T, refStride, disStride int, p *pool, w, h int, q qShift) {
	fwidth := len(taps)
	dst := p.strideElems

	for i := 0; i < h; i++ {
		// Vertical pass.
		for j := 0; j < w; j++ {
			var accumRef, accumDis, accumRefDis uint64
			var accumMu1, accumMu2 uint32

			for fi := 0; fi < fwidth; fi++ {
				ii := mirror(i-fwidth/2+fi, h)

				coeffRef := uint32(ref[ii*refStride+j])
				coeffDis := uint32(dis[ii*disStride+j])
				fcoeff := uint32(taps[fi])

				accumMu1 += fcoeff * coeffRef
				accumMu2 += fcoeff * coeffDis
				accumRef += uint64(fcoeff) * uint64(coeffRef*coeffRef)
				accumDis += uint64(fcoeff) * uint64(coeffDis*coeffDis)
				accumRefDis += uint64(fcoeff) * uint64(coeffRef*coeffDis)
			}

			p.tmpMu1[j] = uint32(uint16((accumMu1 + q.vpRound) >> q.vp))
			p.tmpMu2[j] = uint32(uint16((accumMu2 + q.vpRound) >> q.vp))
			p.tmpRef[j] = uint32((accumRef + q.vpSqRound) >> q.vpSq)
			p.tmpDis[j] = uint32((accumDis + q.vpSqRound) >> q.vpSq)
			p.tmpRefDis[j] = uint32((accumRefDis + q.vpSqRound) >> q.vpSq)
		}

		// Horizontal pass.
		for j := 0; j < w; j++ {
			var accumRef, accumDis, accumRefDis uint64
			var accumMu1, accumMu2 uint32

			for fj := 0; fj < fwidth; fj++ {
				jj := mirror(j-fwidth/2+fj, w)
				fcoeff := uint32(taps[fj])

				accumMu1 += fcoeff * p.tmpMu1[jj]
				accumMu2 += fcoeff * p.tmpMu2[jj]
				accumRef += uint64(fcoeff) * uint64(p.tmpRef[jj])
				accumDis += uint64(fcoeff) * uint64(p.tmpDis[jj])
				accumRefDis += uint64(fcoeff) * uint64(p.tmpRefDis[jj])
			}

			p.mu1[i*dst+j] = accumMu1
			p.mu2[i*dst+j] = accumMu2
			p.refSq[i*dst+j] = uint32((accumRef + q.hpRound) >> q.hp)
			p.disSq[i*dst+j] = uint32((accumDis + q.hpRound) >> q.hp)
			p.refDis[i*dst+j] = uint32((accumRefDis + q.hpRound) >> q.hp)
		}
	}
}
