package vif

import "math"

// log2Poly holds the minimax polynomial for log2(1+x) on [0,1), leading
// coefficient first. Evaluated by Horner in float32 on the IEEE-754
// mantissa. The table content is part of the scoring contract, so neither
// the coefficients nor the evaluation order may change.
var log2Poly = [9]float32{
	-0.012671635276421, 0.064841182402670, -0.157048836463065,
	0.257167726303123, -0.353800560300520, 0.480131410397451,
	-0.721314327952201, 1.442694803896991, 0,
}

func horner32(poly []float32, x float32) float32 {
	var v float32
	for _, c := range poly {
		v = v*x + c
	}
	return v
}

// log2Approx32 computes log2(x) in single precision by splitting x into its
// binary exponent and mantissa and running the polynomial on mantissa-1.
func log2Approx32(x float32) float32 {
	const (
		expZero  = 0x3F800000
		expMask  = 0x7F800000
		mantMask = 0x007FFFFF
	)

	if x == 0 {
		return float32(math.Inf(-1))
	}
	if x < 0 {
		return float32(math.NaN())
	}

	u := math.Float32bits(x)
	exponent := (u & expMask) >> 23
	remain := math.Float32frombits(u&mantMask | expZero)

	logBase := float32(int32(exponent) - 127)
	return logBase + horner32(log2Poly[:], remain-1.0)
}

// buildLogTable fills tab[i] = round(log2(i) * 2048) for the normalized
// range. Entries below the floor stay zero; the top16 normalizers guarantee
// lookups never reach them.
func buildLogTable(tab *[65536]uint16) {
	for i := 32767; i < 65536; i++ {
		tab[i] = uint16(math.Round(float64(log2Approx32(float32(i)) * 2048)))
	}
}
