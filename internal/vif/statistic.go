package vif

// sigmaNSq is the noise-variance floor, the constant 2 carried in Q16 as
// 2·65536. Local reference variance below it takes the closed-form
// path; at or above it the log-ratio path runs against the lookup table.
const sigmaNSq = 65536 << 1

// statistic walks the five moment planes of one scale and folds every pixel
// into either the log-domain or the low-variance accumulators, returning
// the scale's (num, den) pair.
//
// The log path avoids per-pixel exponent fixups: the shift returned by the
// top16 normalizers is summed algebraically (accumX, accumX2, numAccumX)
// and applied once in the final combine instead of scaling each table hit
// by 2048. The low-variance path accumulates raw sigma2 sums that the
// combine reinterprets as 1 - sigma2·4/255² per pixel.
func statistic(p *pool, logTab *[65536]uint16, w, h int) (num, den float64) {
	stride := p.strideElems

	var accumX, accumX2 int64
	var numAccumX int64
	var accumNumLog, accumDenLog int64
	var accumNumNonLog, accumDenNonLog int64

	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			mu1Val := uint64(p.mu1[i*stride+j])
			mu2Val := uint64(p.mu2[i*stride+j])

			// Squared and cross means back to Q32, round half up.
			mu1Sq := uint32((mu1Val*mu1Val + 1<<31) >> 32)
			mu2Sq := uint32((mu2Val*mu2Val + 1<<31) >> 32)
			mu1Mu2 := uint32((mu1Val*mu2Val + 1<<31) >> 32)

			sigma1Sq := int32(p.refSq[i*stride+j] - mu1Sq)
			sigma2Sq := int32(p.disSq[i*stride+j] - mu2Sq)

			if sigma1Sq < sigmaNSq {
				accumNumNonLog += int64(sigma2Sq)
				accumDenNonLog++
				continue
			}

			sigma12 := int32(p.refDis[i*stride+j] - mu1Mu2)

			denStage1 := uint32(sigmaNSq + sigma1Sq)
			mDen, x := top16FromU32(denStage1)
			numAccumX++
			accumX += int64(x)
			denVal := int64(logTab[mDen])

			if sigma12 < 0 {
				// Negative correlation contributes nothing to the
				// numerator but still weighs the denominator.
				accumDenLog += denVal
				continue
			}

			numer1 := sigma2Sq + sigmaNSq
			sigma12Sq := int64(sigma12) * int64(sigma12)
			prod := int64(numer1) * int64(sigma1Sq)
			denom := prod - sigma12Sq

			if denom > 0 {
				mNum, x1 := top16FromU64(uint64(prod))
				mDenom, x2 := top16FromU64(uint64(denom))
				accumX2 += int64(x2 - x1)
				accumNumLog += int64(logTab[mNum]) - int64(logTab[mDenom])
				accumDenLog += denVal
			} else {
				// denom <= 0 would make the log ratio a NaN; fold the
				// pixel into the low-variance path instead.
				accumNumNonLog += int64(sigma2Sq)
				accumDenNonLog++
			}
		}
	}

	// The table is Q11 (log2(i)·2048); the exponent carries and the 17-bit
	// offset of the denominator stage are applied here once. 65025 is 255².
	num = float64(accumNumLog)/2048.0 + float64(accumX2) +
		(float64(accumDenNonLog) - (float64(accumNumNonLog)/16384.0)/65025.0)
	den = float64(accumDenLog)/2048.0 - float64(accumX+numAccumX*17) + float64(accumDenNonLog)

	return num, den
}
