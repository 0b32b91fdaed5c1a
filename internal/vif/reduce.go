package vif

// reduceBlur applies the separable reduction filter to both input planes at
// once, writing the pre-decimation blur into mu1Small/mu2Small. The
// vertical shift undoes the input depth at the first scale and Q16 after
// that; the horizontal pass is always Q16 with round-half-up.
func reduceBlur[T sample](taps []uint16, ref, dis []T, refStride, disStride int, p *pool, w, h int, q qShift) {
	fwidth := len(taps)
	dst := p.strideElems
	tmpRef := p.tmpRefConvol
	tmpDis := p.tmpDisConvol

	for i := 0; i < h; i++ {
		// Vertical pass.
		for j := 0; j < w; j++ {
			var accumRef, accumDis uint32

			for fi := 0; fi < fwidth; fi++ {
				ii := mirror(i-fwidth/2+fi, h)
				fcoeff := uint32(taps[fi])

				accumRef += fcoeff * uint32(ref[ii*refStride+j])
				accumDis += fcoeff * uint32(dis[ii*disStride+j])
			}

			tmpRef[j] = uint32(uint16((accumRef + q.vpRound) >> q.vp))
			tmpDis[j] = uint32(uint16((accumDis + q.vpRound) >> q.vp))
		}

		// Horizontal pass.
		for j := 0; j < w; j++ {
			var accumRef, accumDis uint32

			for fj := 0; fj < fwidth; fj++ {
				jj := mirror(j-fwidth/2+fj, w)
				fcoeff := uint32(taps[fj])

				accumRef += fcoeff * tmpRef[jj]
				accumDis += fcoeff * tmpDis[jj]
			}

			p.mu1Small[i*dst+j] = uint16((accumRef + 32768) >> 16)
			p.mu2Small[i*dst+j] = uint16((accumDis + 32768) >> 16)
		}
	}
}

// decimate keeps every even row and column of src, writing the half
// resolution plane to dst. Both planes share the pool stride.
func decimate(src, dst []uint16, w, h, stride int) {
	for i := 0; i < h/2; i++ {
		srcRow := 2 * i * stride
		dstRow := i * stride
		for j := 0; j < w/2; j++ {
			dst[dstRow+j] = src[srcRow+2*j]
		}
	}
}
