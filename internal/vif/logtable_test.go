package vif

import (
	"math"
	"testing"
)

func TestLog2Approx32Exact(t *testing.T) {
	// Powers of two have a zero mantissa remainder, so the polynomial
	// contributes exactly its constant term (zero).
	for _, tc := range []struct {
		x    float32
		want float32
	}{
		{1, 0},
		{2, 1},
		{4, 2},
		{32768, 15},
		{65536, 16},
	} {
		if got := log2Approx32(tc.x); got != tc.want {
			t.Errorf("log2Approx32(%g) = %g, want %g", tc.x, got, tc.want)
		}
	}
}

func TestLog2Approx32Special(t *testing.T) {
	if got := log2Approx32(0); !math.IsInf(float64(got), -1) {
		t.Errorf("log2Approx32(0) = %g, want -Inf", got)
	}
	if got := log2Approx32(-1); !math.IsNaN(float64(got)) {
		t.Errorf("log2Approx32(-1) = %g, want NaN", got)
	}
}

// Every table entry must match round(log2(i)*2048) to one unit.
func TestLogTableAccuracy(t *testing.T) {
	var tab [65536]uint16
	buildLogTable(&tab)

	for i := 32768; i < 65536; i++ {
		want := math.Round(math.Log2(float64(i)) * 2048)
		got := float64(tab[i])
		if diff := math.Abs(got - want); diff > 1 {
			t.Fatalf("tab[%d] = %g, want %g (diff %g)", i, got, want, diff)
		}
	}
}

func TestLogTableEndpoints(t *testing.T) {
	var tab [65536]uint16
	buildLogTable(&tab)

	// log2(32768)*2048 = 15*2048 exactly.
	if tab[32768] != 30720 {
		t.Errorf("tab[32768] = %d, want 30720", tab[32768])
	}

	// Entries below the generator's floor stay zero.
	if tab[0] != 0 || tab[32000] != 0 {
		t.Errorf("entries below the floor should be zero, got tab[0]=%d tab[32000]=%d", tab[0], tab[32000])
	}

	// The table is monotone non-decreasing over the defined range.
	for i := 32769; i < 65536; i++ {
		if tab[i] < tab[i-1] {
			t.Fatalf("table not monotone at %d: %d < %d", i, tab[i], tab[i-1])
		}
	}
}
